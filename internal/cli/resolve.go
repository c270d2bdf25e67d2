package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

var (
	ErrNoMatch     = errors.New("no match")
	ErrAmbiguous   = errors.New("reference matches more than one entry")
	ErrInvalidSlot = errors.New("invalid slot")
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(?i:(am|pm))?$`)

// ParseSlot turns "9:30 AM", "9 AM:30", "9:30am" or 24h "21:30" into a grid
// slot key. Only :00 and :30 within the grid are accepted.
func ParseSlot(s string) (string, error) {
	s = strings.TrimSpace(s)
	if timeslot.SlotKeyToDisplay(s) != s {
		return validSlot(s)
	}
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w %q (expected e.g. 9:30 AM or 21:30)", ErrInvalidSlot, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute := m[2]
	switch period := strings.ToUpper(m[3]); {
	case period == "" && hour <= 23:
	case period != "" && hour >= 1 && hour <= 12:
		hour = timeslot.DisplayToHour(fmt.Sprintf("%d %s", hour, period))
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidSlot, s)
	}
	return validSlot(timeslot.SlotKey(timeslot.HourToDisplay(hour), minute))
}

func validSlot(key string) (string, error) {
	for _, k := range timeslot.SlotKeys() {
		if k == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w %q (slots run 5:00 AM to 11:30 PM on the hour and half hour)", ErrInvalidSlot, timeslot.SlotKeyToDisplay(key))
}

// resolve picks one of n entries by 1-based position or unique id prefix.
func resolve(ref string, ids []string, what string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ids) {
			return -1, fmt.Errorf("%s %d: %w (have %d)", what, n, ErrNoMatch, len(ids))
		}
		return n - 1, nil
	}
	found := -1
	for i, id := range ids {
		if id == ref {
			return i, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			if found >= 0 {
				return -1, fmt.Errorf("%s %q: %w", what, ref, ErrAmbiguous)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%s %q: %w", what, ref, ErrNoMatch)
	}
	return found, nil
}

func ResolvePriority(day models.PlannerDay, ref string) (models.TopPriority, error) {
	ids := make([]string, len(day.TopPriorities))
	for i, p := range day.TopPriorities {
		ids[i] = p.ID
	}
	i, err := resolve(ref, ids, "priority")
	if err != nil {
		return models.TopPriority{}, err
	}
	return day.TopPriorities[i], nil
}

func ResolveSubtask(p models.TopPriority, ref string) (models.SubTask, error) {
	ids := make([]string, len(p.Subtasks))
	for i, s := range p.Subtasks {
		ids[i] = s.ID
	}
	i, err := resolve(ref, ids, "subtask")
	if err != nil {
		return models.SubTask{}, err
	}
	return p.Subtasks[i], nil
}

func ResolveItem(day models.PlannerDay, slot, ref string) (models.HourlyItem, error) {
	items := day.HourlySlots[slot]
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	i, err := resolve(ref, ids, "item")
	if err != nil {
		return models.HourlyItem{}, err
	}
	return items[i], nil
}

// ShortID trims an id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func StatusMark(s models.TaskStatus) string {
	switch s {
	case models.StatusCompleted:
		return "[x]"
	case models.StatusError:
		return "[!]"
	default:
		return "[ ]"
	}
}

func CheckMark(done bool) string {
	if done {
		return StatusMark(models.StatusCompleted)
	}
	return StatusMark(models.StatusPending)
}
