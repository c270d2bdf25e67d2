package days

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/export"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

type ClearCmd struct {
	Date string `help:"Day to clear." short:"d"`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Clear priorities, schedule and notes for %s?", timeslot.DateKey(date)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		return planner.ClearDay(d), nil
	}); err != nil {
		return err
	}
	ctx.Printf("✓ Cleared %s\n", timeslot.DateKey(date))
	return nil
}

type NotesCmd struct {
	Text   []string `arg:"" optional:"" help:"New notes text. Omit to print the current notes."`
	Date   string   `help:"Day to edit." short:"d"`
	Append bool     `help:"Append a line instead of replacing." short:"a"`
}

func (c *NotesCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	if len(c.Text) == 0 {
		day := planner.LoadOrDefault(ctx.Store, date)
		if strings.TrimSpace(day.BrainDump) == "" {
			ctx.Println("(empty)")
			return nil
		}
		ctx.Println(RenderMarkdown(day.BrainDump, ctx.MarkdownStyle))
		return nil
	}

	text := strings.Join(c.Text, " ")
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		if c.Append && d.BrainDump != "" {
			return planner.SetBrainDump(d, strings.TrimRight(d.BrainDump, "\n")+"\n"+text), nil
		}
		return planner.SetBrainDump(d, text), nil
	}); err != nil {
		return err
	}
	ctx.Println("✓ Notes saved")
	return nil
}

// ListCmd prints every date that has a stored day.
type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	dates, err := planner.Dates(ctx.Store, ctx.Loc())
	if err != nil {
		return fmt.Errorf("failed to list days: %w", err)
	}
	if len(dates) == 0 {
		ctx.Println("No saved days.")
		return nil
	}
	for _, d := range dates {
		day := planner.LoadOrDefault(ctx.Store, d)
		items := 0
		for _, slot := range day.HourlySlots {
			items += len(slot)
		}
		ctx.Printf("  %s  %d priorities, %d items\n", timeslot.DateKey(d), len(day.TopPriorities), items)
	}
	return nil
}

type ExportCmd struct {
	Date   string `help:"Day to export." short:"d"`
	Format string `help:"Output format (json or yaml)." enum:"json,yaml" default:"json" short:"f"`
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	doc := export.Build(ctx.Store, date)

	if c.Output == "" {
		return export.Write(ctx.Writer(), doc, format)
	}
	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Output, err)
	}
	if err := export.Write(f, doc, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	ctx.Printf("✓ Exported %s to %s\n", doc.Date, c.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"Document to import ('-' for stdin)."`
	Format string `help:"Input format (json or yaml). Defaults to the file extension." short:"f"`
	Yes    bool   `help:"Overwrite an existing day without asking." short:"y"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	format := export.FormatFromPath(c.File)
	if c.Format != "" {
		var err error
		if format, err = export.ParseFormat(c.Format); err != nil {
			return err
		}
	}

	in := ctx.Reader()
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.File, err)
		}
		defer f.Close()
		in = f
	}
	doc, err := export.Read(in, format)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(doc.Date)
	if err != nil {
		return err
	}
	if _, exists := planner.Load(ctx.Store, date); exists && !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("%s already has a saved day. Overwrite?", doc.Date))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	res, err := export.Apply(ctx.Store, doc, ctx.Loc())
	if err != nil {
		return err
	}
	ctx.Printf("✓ Imported %s (%d reminders added, %d replaced)\n", doc.Date, res.RemindersAdded, res.RemindersReplaced)
	return nil
}
