package days

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/reminders"
	"github.com/julianstephens/dayplanner/internal/schedule"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

type ShowCmd struct {
	Date  string `help:"Day to show (YYYY-MM-DD, today, tomorrow, yesterday)." short:"d"`
	All   bool   `help:"Show every slot from 5 AM, not just the scheduled hours."`
	Empty bool   `help:"Include slots with nothing in them."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	day := planner.LoadOrDefault(ctx.Store, date)

	hours := schedule.Hours(ctx.Schedule().Config())
	if c.All {
		hours = timeslot.AllHours()
	}
	rs := ctx.Reminders()

	ctx.Println(date.Format("Monday, January 2, 2006"))
	ctx.Println()
	writePriorities(ctx, day)
	ctx.Println()
	writeSchedule(ctx, day, hours, rs, date, c.Empty)
	ctx.Println()
	writeNotes(ctx, day.BrainDump)
	return nil
}

func writePriorities(ctx *cli.Context, day models.PlannerDay) {
	ctx.Println("Top priorities")
	if len(day.TopPriorities) == 0 {
		ctx.Println("  (none)")
		return
	}
	for i, p := range day.TopPriorities {
		progress := ""
		if len(p.Subtasks) > 0 {
			progress = fmt.Sprintf("  (%d/%d)", p.CompletedSubtasks(), len(p.Subtasks))
		}
		ctx.Printf("  %d. %s %s%s\n", i+1, cli.CheckMark(p.IsComplete()), p.Name, progress)
		for j, s := range p.Subtasks {
			ctx.Printf("       %c. %s %s\n", 'a'+j, cli.CheckMark(s.Completed), s.Name)
		}
	}
}

func writeSchedule(ctx *cli.Context, day models.PlannerDay, hours []string, rs *reminders.Store, date time.Time, showEmpty bool) {
	ctx.Println("Schedule")
	printed := 0
	for _, key := range timeslot.SlotKeysForHours(hours) {
		display := timeslot.SlotKeyToDisplay(key)
		items := day.HourlySlots[key]
		due := rs.ForSlot(date, display)
		if len(items) == 0 && len(due) == 0 && !showEmpty {
			continue
		}
		printed++
		label := fmt.Sprintf("%8s", display)
		if len(items) == 0 && len(due) == 0 {
			ctx.Printf("  %s\n", label)
			continue
		}
		for i, it := range items {
			if i > 0 {
				label = strings.Repeat(" ", len(label))
			}
			ctx.Printf("  %s  %s %s\n", label, cli.StatusMark(it.Status), it.Text)
		}
		for i, r := range due {
			if len(items) > 0 || i > 0 {
				label = strings.Repeat(" ", len(label))
			}
			state := "reminder"
			if r.Dismissed {
				state = "dismissed"
			}
			ctx.Printf("  %s  (%s) %s\n", label, state, r.Title)
		}
	}
	if printed == 0 {
		ctx.Println("  (nothing scheduled)")
	}
}

func writeNotes(ctx *cli.Context, notes string) {
	ctx.Println("Notes")
	if strings.TrimSpace(notes) == "" {
		ctx.Println("  (empty)")
		return
	}
	ctx.Println(RenderMarkdown(notes, ctx.MarkdownStyle))
}

// RenderMarkdown renders notes with glamour, falling back to the raw text.
func RenderMarkdown(md, style string) string {
	if style == "" {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
