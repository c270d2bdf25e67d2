package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

// Reminder is a dated note pinned to a half-hour slot.
type Reminder struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Date        string    `json:"date" yaml:"date"`         // YYYY-MM-DD
	TimeSlot    string    `json:"timeSlot" yaml:"timeSlot"` // "H:MM AM|PM"
	Dismissed   bool      `json:"dismissed" yaml:"dismissed"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// Hour returns the 24h hour of the reminder's slot.
func (r Reminder) Hour() int { return timeslot.ParseHour(r.TimeSlot) }

func (r Reminder) Minute() int { return timeslot.ParseMinutes(r.TimeSlot) }

// NewReminder holds the caller-supplied fields of a reminder.
type NewReminder struct {
	Title       string
	Description string
	Date        string
	TimeSlot    string
}

var (
	ErrBlankTitle      = errors.New("reminder title cannot be empty")
	ErrInvalidDate     = errors.New("reminder date must be YYYY-MM-DD")
	ErrInvalidTimeSlot = errors.New("reminder time slot must look like 9:30 AM")
)

// Normalize trims the free-text fields.
func (n NewReminder) Normalize() NewReminder {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	n.Date = strings.TrimSpace(n.Date)
	n.TimeSlot = strings.TrimSpace(n.TimeSlot)
	return n
}

func (n NewReminder) Validate() error {
	n = n.Normalize()
	if n.Title == "" {
		return ErrBlankTitle
	}
	if err := validateDate(n.Date); err != nil {
		return err
	}
	return validateTimeSlot(n.TimeSlot)
}

func validateDate(date string) error {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

func validateTimeSlot(slot string) error {
	if !timeslot.IsDisplay(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, slot)
	}
	return nil
}

// ReminderPatch is a partial update; nil fields are left unchanged. The id
// and creation time cannot be patched.
type ReminderPatch struct {
	Title       *string
	Description *string
	Date        *string
	TimeSlot    *string
	Dismissed   *bool
}

func (p ReminderPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrBlankTitle
	}
	if p.Date != nil {
		if err := validateDate(strings.TrimSpace(*p.Date)); err != nil {
			return err
		}
	}
	if p.TimeSlot != nil {
		return validateTimeSlot(strings.TrimSpace(*p.TimeSlot))
	}
	return nil
}

// Apply returns r with the patch's non-nil fields applied.
func (p ReminderPatch) Apply(r Reminder) Reminder {
	if p.Title != nil {
		r.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		r.Description = strings.TrimSpace(*p.Description)
	}
	if p.Date != nil {
		r.Date = strings.TrimSpace(*p.Date)
	}
	if p.TimeSlot != nil {
		r.TimeSlot = strings.TrimSpace(*p.TimeSlot)
	}
	if p.Dismissed != nil {
		r.Dismissed = *p.Dismissed
	}
	return r
}

func (p ReminderPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.TimeSlot == nil && p.Dismissed == nil
}
