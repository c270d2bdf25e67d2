// Package slots edits the half-hourly schedule grid. Slots accept "9:30 AM",
// "9 AM:30" or "21:30"; items within a slot are addressed by position or id.
package slots

import (
	"errors"
	"strings"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

type AddCmd struct {
	Slot string   `arg:"" help:"Time slot, e.g. 9:30 AM."`
	Text []string `arg:"" help:"Item text."`
	Date string   `help:"Day to edit." short:"d"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	slot, err := cli.ParseSlot(c.Slot)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(c.Text, " "))
	if text == "" {
		return errors.New("item text cannot be empty")
	}
	return addItem(ctx, c.Date, slot, text)
}

func addItem(ctx *cli.Context, dateArg, slot, text string) error {
	date, err := ctx.ParseDate(dateArg)
	if err != nil {
		return err
	}
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		out, _ := planner.AddItem(d, slot, text)
		return out, nil
	}); err != nil {
		return err
	}
	ctx.Printf("✓ %s: %s\n", timeslot.SlotKeyToDisplay(slot), text)
	return nil
}

// DropCmd copies a priority's or subtask's name into a slot as a new item.
type DropCmd struct {
	Slot     string `arg:"" help:"Target time slot."`
	Priority string `help:"Priority number or id to drop." required:""`
	Subtask  string `help:"Subtask of that priority to drop instead."`
	Date     string `help:"Day to edit." short:"d"`
}

func (c *DropCmd) Run(ctx *cli.Context) error {
	slot, err := cli.ParseSlot(c.Slot)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	var text string
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		p, err := cli.ResolvePriority(d, c.Priority)
		if err != nil {
			return d, err
		}
		text = p.Name
		if c.Subtask != "" {
			s, err := cli.ResolveSubtask(p, c.Subtask)
			if err != nil {
				return d, err
			}
			text = s.Name
		}
		if strings.TrimSpace(text) == "" {
			return d, errors.New("nothing to drop: the name is empty")
		}
		out, _ := planner.AddItem(d, slot, text)
		return out, nil
	}); err != nil {
		return err
	}
	ctx.Printf("✓ %s: %s\n", timeslot.SlotKeyToDisplay(slot), strings.TrimSpace(text))
	return nil
}

// itemEdit resolves slot and item and applies fn.
func itemEdit(ctx *cli.Context, dateArg, slotArg, ref string, fn func(d models.PlannerDay, slot string, it models.HourlyItem) models.PlannerDay) (models.PlannerDay, string, models.HourlyItem, error) {
	slot, err := cli.ParseSlot(slotArg)
	if err != nil {
		return models.PlannerDay{}, "", models.HourlyItem{}, err
	}
	date, err := ctx.ParseDate(dateArg)
	if err != nil {
		return models.PlannerDay{}, "", models.HourlyItem{}, err
	}
	var target models.HourlyItem
	day, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		it, err := cli.ResolveItem(d, slot, ref)
		if err != nil {
			return d, err
		}
		target = it
		return fn(d, slot, it), nil
	})
	return day, slot, target, err
}

type EditCmd struct {
	Slot string   `arg:"" help:"Time slot."`
	Item string   `arg:"" help:"Item number or id."`
	Text []string `arg:"" optional:"" help:"New text. Blank deletes the item."`
	Date string   `help:"Day to edit." short:"d"`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Text, " "))
	_, slot, it, err := itemEdit(ctx, c.Date, c.Slot, c.Item, func(d models.PlannerDay, slot string, it models.HourlyItem) models.PlannerDay {
		return planner.EditItem(d, slot, it.ID, text)
	})
	if err != nil {
		return err
	}
	if text == "" {
		ctx.Printf("✓ Deleted from %s: %s\n", timeslot.SlotKeyToDisplay(slot), it.Text)
		return nil
	}
	ctx.Printf("✓ %s: %s\n", timeslot.SlotKeyToDisplay(slot), text)
	return nil
}

type CycleCmd struct {
	Slot string `arg:"" help:"Time slot."`
	Item string `arg:"" help:"Item number or id."`
	Date string `help:"Day to edit." short:"d"`
}

func (c *CycleCmd) Run(ctx *cli.Context) error {
	day, slot, it, err := itemEdit(ctx, c.Date, c.Slot, c.Item, func(d models.PlannerDay, slot string, it models.HourlyItem) models.PlannerDay {
		return planner.CycleItemStatus(d, slot, it.ID)
	})
	if err != nil {
		return err
	}
	for _, updated := range day.HourlySlots[slot] {
		if updated.ID == it.ID {
			ctx.Printf("%s %s (%s)\n", cli.StatusMark(updated.Status), updated.Text, updated.Status)
		}
	}
	return nil
}

type DeleteCmd struct {
	Slot string `arg:"" help:"Time slot."`
	Item string `arg:"" help:"Item number or id."`
	Date string `help:"Day to edit." short:"d"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	_, slot, it, err := itemEdit(ctx, c.Date, c.Slot, c.Item, func(d models.PlannerDay, slot string, it models.HourlyItem) models.PlannerDay {
		return planner.DeleteItem(d, slot, it.ID)
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Deleted from %s: %s\n", timeslot.SlotKeyToDisplay(slot), it.Text)
	return nil
}
