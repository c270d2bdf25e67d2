package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/notifier"
	store "github.com/julianstephens/dayplanner/internal/reminders"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

// timeSlot converts user input to the reminder display form, limited to
// the default visible hours.
func timeSlot(s string) (string, error) {
	key, err := cli.ParseSlot(s)
	if err != nil {
		return "", err
	}
	display := timeslot.SlotKeyToDisplay(key)
	for _, opt := range timeslot.TimeSlotOptions(timeslot.DefaultHours()) {
		if opt == display {
			return display, nil
		}
	}
	return "", fmt.Errorf("reminders can be set from 7:00 AM to 11:30 PM, got %s", display)
}

func describe(r models.Reminder, now time.Time) string {
	state := ""
	switch {
	case r.Dismissed:
		state = " [dismissed]"
	case store.IsPastDue(r, now):
		state = " [past due]"
	}
	line := fmt.Sprintf("%s  %s %8s  %s%s", cli.ShortID(r.ID), r.Date, r.TimeSlot, r.Title, state)
	if r.Description != "" {
		line += "\n          " + r.Description
	}
	return line
}

type AddCmd struct {
	Title       []string `arg:"" help:"Reminder title."`
	Time        string   `help:"Time slot, e.g. 9:30 AM." required:"" short:"t"`
	Date        string   `help:"Date (YYYY-MM-DD, today, tomorrow)." short:"d"`
	Description string   `help:"Longer description."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	slot, err := timeSlot(c.Time)
	if err != nil {
		return err
	}
	r, err := ctx.Reminders().Add(models.NewReminder{
		Title:       strings.Join(c.Title, " "),
		Description: c.Description,
		Date:        timeslot.DateKey(date),
		TimeSlot:    slot,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Reminder added: %s on %s at %s (%s)\n", r.Title, r.Date, r.TimeSlot, cli.ShortID(r.ID))
	return nil
}

type ListCmd struct {
	Date     string `help:"Only reminders on this date." short:"d"`
	PastDue  bool   `help:"Only past-due reminders." xor:"filter"`
	Upcoming bool   `help:"Only upcoming reminders." xor:"filter"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	rs := ctx.Reminders()
	var list []models.Reminder
	switch {
	case c.PastDue:
		list = rs.PastDue()
	case c.Upcoming:
		list = rs.Upcoming()
	default:
		list = rs.All()
	}
	if c.Date != "" {
		date, err := ctx.ParseDate(c.Date)
		if err != nil {
			return err
		}
		key := timeslot.DateKey(date)
		filtered := list[:0]
		for _, r := range list {
			if r.Date == key {
				filtered = append(filtered, r)
			}
		}
		list = filtered
	}
	store.SortBySlot(list)

	if len(list) == 0 {
		ctx.Println("No reminders.")
		return nil
	}
	now := rs.Now()
	for _, r := range list {
		ctx.Println(describe(r, now))
	}
	return nil
}

type UpdateCmd struct {
	Ref              string `arg:"" help:"Reminder id or id prefix."`
	Title            string `help:"New title."`
	Description      string `help:"New description."`
	ClearDescription bool   `help:"Remove the description."`
	Date             string `help:"New date." short:"d"`
	Time             string `help:"New time slot." short:"t"`
	Undismiss        bool   `help:"Mark the reminder active again."`
}

func (c *UpdateCmd) patch(ctx *cli.Context) (models.ReminderPatch, error) {
	var p models.ReminderPatch
	if c.Title != "" {
		p.Title = &c.Title
	}
	if c.ClearDescription {
		empty := ""
		p.Description = &empty
	} else if c.Description != "" {
		p.Description = &c.Description
	}
	if c.Date != "" {
		date, err := ctx.ParseDate(c.Date)
		if err != nil {
			return p, err
		}
		key := timeslot.DateKey(date)
		p.Date = &key
	}
	if c.Time != "" {
		slot, err := timeSlot(c.Time)
		if err != nil {
			return p, err
		}
		p.TimeSlot = &slot
	}
	if c.Undismiss {
		active := false
		p.Dismissed = &active
	}
	return p, nil
}

func (c *UpdateCmd) Run(ctx *cli.Context) error {
	p, err := c.patch(ctx)
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		return errors.New("nothing to update")
	}
	rs := ctx.Reminders()
	r, err := rs.Resolve(c.Ref)
	if err != nil {
		return err
	}
	updated, err := rs.Update(r.ID, p)
	if err != nil {
		return err
	}
	ctx.Println("✓ Reminder updated")
	ctx.Println(describe(updated, rs.Now()))
	return nil
}

type DismissCmd struct {
	Ref string `arg:"" help:"Reminder id or id prefix."`
}

func (c *DismissCmd) Run(ctx *cli.Context) error {
	rs := ctx.Reminders()
	r, err := rs.Resolve(c.Ref)
	if err != nil {
		return err
	}
	if err := rs.Dismiss(r.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Dismissed: %s\n", r.Title)
	return nil
}

type DeleteCmd struct {
	Ref string `arg:"" help:"Reminder id or id prefix."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	rs := ctx.Reminders()
	r, err := rs.Resolve(c.Ref)
	if err != nil {
		return err
	}
	if err := rs.Delete(r.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted: %s\n", r.Title)
	return nil
}

// Sender delivers one notification.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

// NotifyCmd is meant to run from a scheduler once per Window.
type NotifyCmd struct {
	Window  time.Duration `help:"Notify reminders whose slot started within this long." default:"1m"`
	PastDue bool          `help:"Notify every past-due reminder instead."`
	DryRun  bool          `help:"Print notifications instead of sending them."`

	// Sender overrides the tray notifier.
	Sender Sender `kong:"-"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	rs := ctx.Reminders()
	now := rs.Now()

	var due []models.Reminder
	if c.PastDue {
		due = rs.PastDue()
		store.SortBySlot(due)
	} else {
		due = store.Due(rs.All(), now, c.Window)
	}
	if len(due) == 0 {
		if c.DryRun {
			ctx.Println("Nothing due.")
		}
		return nil
	}

	sender := c.Sender
	if sender == nil {
		sender = notifier.New()
	}
	var failed int
	for _, r := range due {
		msg := notifier.Message(r)
		if c.DryRun {
			ctx.Println("[DryRun] " + msg)
			continue
		}
		if err := sender.Notify(context.Background(), msg); err != nil {
			if errors.Is(err, notifier.ErrTrayNotRunning) {
				return err
			}
			ctx.Printf("Failed to send notification: %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d notifications failed", failed, len(due))
	}
	return nil
}
