package priorities

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/cli/clitest"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
)

func today(t *testing.T, ctx *cli.Context) models.PlannerDay {
	t.Helper()
	date, err := ctx.ParseDate("")
	if err != nil {
		t.Fatal(err)
	}
	return planner.LoadOrDefault(ctx.Store, date)
}

func TestAddPriority(t *testing.T) {
	ctx, out := clitest.New(t)

	for _, name := range []string{"One", "Two", "Three"} {
		if err := (&AddCmd{Name: []string{name}}).Run(ctx); err != nil {
			t.Fatalf("add %s failed: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "✓ Priority added: One") {
		t.Errorf("unexpected output %q", out.String())
	}

	err := (&AddCmd{Name: []string{"Four"}}).Run(ctx)
	if !errors.Is(err, planner.ErrPriorityLimit) {
		t.Errorf("expected ErrPriorityLimit, got %v", err)
	}
	if n := len(today(t, ctx).TopPriorities); n != 3 {
		t.Errorf("expected 3 priorities, got %d", n)
	}

	if err := (&AddCmd{Name: []string{"  "}}).Run(ctx); err == nil {
		t.Error("blank name should be rejected")
	}
}

func TestAddPriorityOtherDay(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&AddCmd{Name: []string{"Later"}, Date: "tomorrow"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if n := len(today(t, ctx).TopPriorities); n != 0 {
		t.Errorf("today should be untouched, got %d priorities", n)
	}
	date, _ := ctx.ParseDate("2026-03-11")
	if day := planner.LoadOrDefault(ctx.Store, date); len(day.TopPriorities) != 1 {
		t.Errorf("tomorrow should hold the priority, got %+v", day)
	}
}

func TestDoneRenameDelete(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&AddCmd{Name: []string{"Write", "tests"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&DoneCmd{Ref: "1"}).Run(ctx); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	if !today(t, ctx).TopPriorities[0].Completed {
		t.Error("priority should be completed")
	}
	if !strings.Contains(out.String(), "[x] Write tests") {
		t.Errorf("unexpected output %q", out.String())
	}

	id := today(t, ctx).TopPriorities[0].ID
	if err := (&RenameCmd{Ref: id[:6], Name: []string{"Write", "more", "tests"}}).Run(ctx); err != nil {
		t.Fatalf("rename by id prefix failed: %v", err)
	}
	if got := today(t, ctx).TopPriorities[0].Name; got != "Write more tests" {
		t.Errorf("name = %q", got)
	}

	if err := (&DeleteCmd{Ref: "2"}).Run(ctx); !errors.Is(err, cli.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
	if err := (&DeleteCmd{Ref: "1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if n := len(today(t, ctx).TopPriorities); n != 0 {
		t.Errorf("expected no priorities, got %d", n)
	}
}

func TestDoneRejectsPriorityWithSubtasks(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&AddCmd{Name: []string{"Launch"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&SubtaskAddCmd{Priority: "1", Name: []string{"Announce"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&DoneCmd{Ref: "1"}).Run(ctx); err == nil {
		t.Error("expected an error for a priority with subtasks")
	}
}

func TestSubtasks(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&AddCmd{Name: []string{"Move"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Pack", "Label"} {
		if err := (&SubtaskAddCmd{Priority: "1", Name: []string{name}}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(out.String(), "✓ Subtask added to Move: Pack") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := (&SubtaskDoneCmd{Priority: "1", Subtask: "1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&SubtaskDoneCmd{Priority: "1", Subtask: "2"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if p := today(t, ctx).TopPriorities[0]; !p.IsComplete() {
		t.Errorf("priority should be complete once every subtask is, got %+v", p)
	}

	if err := (&SubtaskRenameCmd{Priority: "1", Subtask: "2", Name: []string{"Label", "boxes"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := today(t, ctx).TopPriorities[0].Subtasks[1].Name; got != "Label boxes" {
		t.Errorf("subtask name = %q", got)
	}

	out.Reset()
	if err := (&SubtaskRenameCmd{Priority: "1", Subtask: "2"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✓ Subtask deleted: Label boxes") {
		t.Errorf("blank rename should delete, output %q", out.String())
	}

	if err := (&SubtaskDeleteCmd{Priority: "1", Subtask: "1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if n := len(today(t, ctx).TopPriorities[0].Subtasks); n != 0 {
		t.Errorf("expected no subtasks, got %d", n)
	}
}
