package system

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/cli/clitest"
	"github.com/julianstephens/dayplanner/internal/config"
	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
)

func TestDoctorHealthy(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := ctx.Store.Set("planner-2026-03-10", `{"topPriorities":[],"hourlySlots":{},"brainDump":"hi"}`); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.Set(constants.RemindersKey, `[{"id":"a","title":"One","date":"2026-03-10","timeSlot":"9:00 AM"}]`); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on a healthy store: %v\n%s", err, out.String())
	}
	for _, want := range []string{
		"✓ Storage reachable: OK",
		"✓ Schema version: OK",
		"⚠ Backups present: WARNING",
		"✓ Planner days: OK",
		"✓ Reminders: OK",
		"✓ Clock/timezone: OK",
		"All diagnostics passed!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, ctx *cli.Context)
		want  string
	}{
		{
			name: "schema too new",
			setup: func(t *testing.T, ctx *cli.Context) {
				db := kv.Underlying(ctx.Store).(*kv.SQLite).DB()
				if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
					t.Fatal(err)
				}
			},
			want: "❌ Schema version: FAIL",
		},
		{
			name: "corrupt reminders",
			setup: func(t *testing.T, ctx *cli.Context) {
				if err := ctx.Store.Set(constants.RemindersKey, `{"not":"an array"}`); err != nil {
					t.Fatal(err)
				}
			},
			want: "❌ Reminders: FAIL",
		},
		{
			name: "duplicate reminder ids",
			setup: func(t *testing.T, ctx *cli.Context) {
				if err := ctx.Store.Set(constants.RemindersKey, `[{"id":"a"},{"id":"a"}]`); err != nil {
					t.Fatal(err)
				}
			},
			want: "duplicate reminder ID found: a",
		},
		{
			name: "unreadable planner day",
			setup: func(t *testing.T, ctx *cli.Context) {
				if err := ctx.Store.Set("planner-2026-03-10", "not json"); err != nil {
					t.Fatal(err)
				}
			},
			want: "❌ Planner days: FAIL",
		},
		{
			name: "planner key without a date",
			setup: func(t *testing.T, ctx *cli.Context) {
				if err := ctx.Store.Set("planner-someday", "{}"); err != nil {
					t.Fatal(err)
				}
			},
			want: "planner-someday",
		},
		{
			name: "invalid schedule",
			setup: func(t *testing.T, ctx *cli.Context) {
				if err := ctx.Store.Set(constants.ScheduleConfigKey, `{"startHour":12,"endHour":13}`); err != nil {
					t.Fatal(err)
				}
			},
			want: "❌ Schedule config: FAIL",
		},
		{
			name: "quota nearly full",
			setup: func(t *testing.T, ctx *cli.Context) {
				limit := int64(100)
				ctx.Config = &config.Config{Storage: config.StorageConfig{QuotaBytes: &limit}}
				if err := ctx.Store.Set("planner-2026-03-10", `{"brainDump":"`+strings.Repeat("x", 120)+`"}`); err != nil {
					t.Fatal(err)
				}
			},
			want: "❌ Storage quota: FAIL",
		},
		{
			name: "bad timezone",
			setup: func(t *testing.T, ctx *cli.Context) {
				ctx.Config = &config.Config{Timezone: "Mars/Olympus_Mons"}
			},
			want: "❌ Clock/timezone: FAIL",
		},
		{
			name: "storage unreachable",
			setup: func(t *testing.T, ctx *cli.Context) {
				ctx.Store = kv.NewSQLite(filepath.Join(t.TempDir(), "missing.db"))
			},
			want: "⊘ Planner days: SKIPPED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := clitest.New(t)
			tt.setup(t, ctx)
			if err := (&DoctorCmd{}).Run(ctx); err == nil {
				t.Fatalf("expected doctor to fail:\n%s", out.String())
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
			if !strings.Contains(out.String(), "Diagnostics completed with errors.") {
				t.Errorf("missing summary line:\n%s", out.String())
			}
		})
	}
}
