package priorities

import (
	"errors"
	"strings"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
)

// Priorities and subtasks are addressed by 1-based position or id prefix.

type AddCmd struct {
	Name []string `arg:"" help:"Priority name."`
	Date string   `help:"Day to edit." short:"d"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(strings.Join(c.Name, " "))
	if name == "" {
		return errors.New("priority name cannot be empty")
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	var added models.TopPriority
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		out, p, err := planner.AddPriority(d, name)
		added = p
		return out, err
	}); err != nil {
		return err
	}
	ctx.Printf("✓ Priority added: %s (%s)\n", added.Name, cli.ShortID(added.ID))
	return nil
}

type DoneCmd struct {
	Ref  string `arg:"" help:"Priority number or id."`
	Date string `help:"Day to edit." short:"d"`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	var target models.TopPriority
	day, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		p, err := cli.ResolvePriority(d, c.Ref)
		if err != nil {
			return d, err
		}
		if len(p.Subtasks) > 0 {
			return d, errors.New("priority has subtasks; its completion follows them")
		}
		target = p
		return planner.TogglePriority(d, p.ID), nil
	})
	if err != nil {
		return err
	}
	for _, p := range day.TopPriorities {
		if p.ID == target.ID {
			ctx.Printf("%s %s\n", cli.CheckMark(p.Completed), p.Name)
		}
	}
	return nil
}

type RenameCmd struct {
	Ref  string   `arg:"" help:"Priority number or id."`
	Name []string `arg:"" help:"New name."`
	Date string   `help:"Day to edit." short:"d"`
}

func (c *RenameCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(strings.Join(c.Name, " "))
	if name == "" {
		return errors.New("priority name cannot be empty")
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		p, err := cli.ResolvePriority(d, c.Ref)
		if err != nil {
			return d, err
		}
		return planner.RenamePriority(d, p.ID, name), nil
	}); err != nil {
		return err
	}
	ctx.Printf("✓ Priority renamed: %s\n", name)
	return nil
}

type DeleteCmd struct {
	Ref  string `arg:"" help:"Priority number or id."`
	Date string `help:"Day to edit." short:"d"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	var removed models.TopPriority
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		p, err := cli.ResolvePriority(d, c.Ref)
		if err != nil {
			return d, err
		}
		removed = p
		return planner.DeletePriority(d, p.ID), nil
	}); err != nil {
		return err
	}
	ctx.Printf("✓ Priority deleted: %s\n", removed.Name)
	return nil
}

type SubtaskAddCmd struct {
	Priority string   `arg:"" help:"Priority number or id."`
	Name     []string `arg:"" help:"Subtask name."`
	Date     string   `help:"Day to edit." short:"d"`
}

func (c *SubtaskAddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(strings.Join(c.Name, " "))
	if name == "" {
		return errors.New("subtask name cannot be empty")
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	var parent models.TopPriority
	if _, err := ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		p, err := cli.ResolvePriority(d, c.Priority)
		if err != nil {
			return d, err
		}
		parent = p
		out, _ := planner.AddSubtask(d, p.ID, name)
		return out, nil
	}); err != nil {
		return err
	}
	ctx.Printf("✓ Subtask added to %s: %s\n", parent.Name, name)
	return nil
}

// subtaskEdit resolves priority and subtask refs and applies fn.
func subtaskEdit(ctx *cli.Context, dateArg, pref, sref string, fn func(d models.PlannerDay, p models.TopPriority, s models.SubTask) models.PlannerDay) (models.SubTask, error) {
	date, err := ctx.ParseDate(dateArg)
	if err != nil {
		return models.SubTask{}, err
	}
	var target models.SubTask
	_, err = ctx.EditDay(date, func(d models.PlannerDay) (models.PlannerDay, error) {
		p, err := cli.ResolvePriority(d, pref)
		if err != nil {
			return d, err
		}
		s, err := cli.ResolveSubtask(p, sref)
		if err != nil {
			return d, err
		}
		target = s
		return fn(d, p, s), nil
	})
	return target, err
}

type SubtaskDoneCmd struct {
	Priority string `arg:"" help:"Priority number or id."`
	Subtask  string `arg:"" help:"Subtask number or id."`
	Date     string `help:"Day to edit." short:"d"`
}

func (c *SubtaskDoneCmd) Run(ctx *cli.Context) error {
	s, err := subtaskEdit(ctx, c.Date, c.Priority, c.Subtask, func(d models.PlannerDay, p models.TopPriority, s models.SubTask) models.PlannerDay {
		return planner.ToggleSubtask(d, p.ID, s.ID)
	})
	if err != nil {
		return err
	}
	ctx.Printf("%s %s\n", cli.CheckMark(!s.Completed), s.Name)
	return nil
}

type SubtaskRenameCmd struct {
	Priority string   `arg:"" help:"Priority number or id."`
	Subtask  string   `arg:"" help:"Subtask number or id."`
	Name     []string `arg:"" optional:"" help:"New name. Blank deletes the subtask."`
	Date     string   `help:"Day to edit." short:"d"`
}

func (c *SubtaskRenameCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(strings.Join(c.Name, " "))
	s, err := subtaskEdit(ctx, c.Date, c.Priority, c.Subtask, func(d models.PlannerDay, p models.TopPriority, s models.SubTask) models.PlannerDay {
		return planner.RenameSubtask(d, p.ID, s.ID, name)
	})
	if err != nil {
		return err
	}
	if name == "" {
		ctx.Printf("✓ Subtask deleted: %s\n", s.Name)
		return nil
	}
	ctx.Printf("✓ Subtask renamed: %s\n", name)
	return nil
}

type SubtaskDeleteCmd struct {
	Priority string `arg:"" help:"Priority number or id."`
	Subtask  string `arg:"" help:"Subtask number or id."`
	Date     string `help:"Day to edit." short:"d"`
}

func (c *SubtaskDeleteCmd) Run(ctx *cli.Context) error {
	s, err := subtaskEdit(ctx, c.Date, c.Priority, c.Subtask, func(d models.PlannerDay, p models.TopPriority, s models.SubTask) models.PlannerDay {
		return planner.DeleteSubtask(d, p.ID, s.ID)
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Subtask deleted: %s\n", s.Name)
	return nil
}
