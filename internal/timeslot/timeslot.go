// Package timeslot implements the addressing scheme shared by the hourly grid
// and reminders.
//
// Grid slots are keyed "<H> <AM|PM>:<MM>" (e.g. "7 AM:30"); reminders use the
// display form "<H>:<MM> <AM|PM>" (e.g. "7:30 AM").
package timeslot

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/julianstephens/dayplanner/internal/constants"
)

var (
	hourDisplayPattern = regexp.MustCompile(`^(\d+)\s+(AM|PM)$`)
	slotKeyPattern     = regexp.MustCompile(`^(\d+)\s+(AM|PM):(\d+)$`)
	displayPattern     = regexp.MustCompile(`^(\d+):(\d+)\s+(AM|PM)$`)
)

// HourToDisplay converts a 24h hour to "H AM|PM" (e.g. 7 -> "7 AM", 13 -> "1 PM").
func HourToDisplay(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// DisplayToHour converts "H AM|PM" back to a 24h hour. Returns 0 when the
// input does not match.
func DisplayToHour(display string) int {
	m := hourDisplayPattern.FindStringSubmatch(display)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return to24Hour(n, m[2])
}

func to24Hour(hour int, period string) int {
	if period == "AM" {
		if hour == 12 {
			return 0
		}
		return hour
	}
	if hour == 12 {
		return 12
	}
	return hour + 12
}

// AllHours returns every hour the grid can address, 5 AM through 11 PM.
func AllHours() []string {
	return HoursInRange(constants.FirstGridHour, constants.LastGridHour)
}

// DefaultHours returns the hours visible before any schedule configuration,
// 7 AM through 11 PM.
func DefaultHours() []string {
	return HoursInRange(constants.DefaultVisibleStartHour, constants.LastGridHour)
}

// HoursInRange returns display hours from startHour to endHour inclusive.
func HoursInRange(startHour, endHour int) []string {
	var hours []string
	for h := startHour; h <= endHour; h++ {
		hours = append(hours, HourToDisplay(h))
	}
	return hours
}

// SlotKey joins a display hour and a minute bucket into a grid key.
func SlotKey(hour, minute string) string {
	return hour + ":" + minute
}

// SlotKeys returns the 38 half-hour keys of the full grid in display order.
func SlotKeys() []string {
	return SlotKeysForHours(AllHours())
}

// SlotKeysForHours returns the :00 and :30 keys for each display hour.
func SlotKeysForHours(hours []string) []string {
	keys := make([]string, 0, len(hours)*2)
	for _, h := range hours {
		keys = append(keys, SlotKey(h, constants.MinuteTop), SlotKey(h, constants.MinuteHalf))
	}
	return keys
}

// SlotKeyToDisplay converts "7 AM:30" to "7:30 AM". Keys that do not match
// are returned unchanged.
func SlotKeyToDisplay(key string) string {
	m := slotKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return key
	}
	return fmt.Sprintf("%s:%s %s", m[1], m[3], m[2])
}

// DisplayToSlotKey converts "7:30 AM" to "7 AM:30". Values that do not match
// are returned unchanged.
func DisplayToSlotKey(display string) string {
	m := displayPattern.FindStringSubmatch(display)
	if m == nil {
		return display
	}
	return fmt.Sprintf("%s %s:%s", m[1], m[3], m[2])
}

// IsDisplay reports whether s is in the reminder display format "H:MM AM|PM".
func IsDisplay(s string) bool {
	return displayPattern.MatchString(s)
}

// ParseHour returns the 24h hour of a display time slot ("2:30 PM" -> 14),
// or 0 when it does not parse.
func ParseHour(timeSlot string) int {
	m := displayPattern.FindStringSubmatch(timeSlot)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return to24Hour(n, m[3])
}

// ParseMinutes returns the minutes of a display time slot ("2:30 PM" -> 30),
// or 0 when it does not parse.
func ParseMinutes(timeSlot string) int {
	m := displayPattern.FindStringSubmatch(timeSlot)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[2])
	return n
}

// TimeSlotOptions lists the display time slots (":00" and ":30") for each hour.
func TimeSlotOptions(hours []string) []string {
	var options []string
	for _, h := range hours {
		m := hourDisplayPattern.FindStringSubmatch(h)
		if m == nil {
			continue
		}
		options = append(options,
			fmt.Sprintf("%s:%s %s", m[1], constants.MinuteTop, m[2]),
			fmt.Sprintf("%s:%s %s", m[1], constants.MinuteHalf, m[2]),
		)
	}
	return options
}

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}
