package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dayplanner/internal/backup"
	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
)

type versioned interface {
	SchemaVersion() (current, latest int, err error)
}

type check struct {
	name      string
	run       func(*cli.Context) error
	needStore bool
	warnOnly  bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needStore: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Planner days", run: checkPlannerDays, needStore: true},
	{name: "Reminders", run: checkReminders, needStore: true},
	{name: "Schedule config", run: checkScheduleConfig, needStore: true},
	{name: "Storage quota", run: checkQuota, needStore: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	if err := kv.Load(ctx.Store); err != nil {
		ctx.Printf("❌ Storage reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		ctx.Printf("✓ Storage reachable: OK\n")
	}

	for _, c := range checks {
		if c.needStore && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := kv.Underlying(ctx.Store).(versioned)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'dayplanner migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := backup.ForStorage(ctx.Store)
	if errors.Is(err, backup.ErrUnsupportedBackend) {
		return nil
	}
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'dayplanner backup create'")
	}
	return nil
}

// checkPlannerDays reports stored days that would load as the empty default.
func checkPlannerDays(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys(constants.PlannerKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list planner days: %w", err)
	}
	var bad []string
	for _, k := range keys {
		if _, ok := planner.DateFromKey(k, ctx.Loc()); !ok {
			bad = append(bad, k)
			continue
		}
		raw, _, err := ctx.Store.Get(k)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", k, err)
		}
		if _, err := planner.Decode([]byte(raw)); err != nil {
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%d of %d records are unreadable: %v", len(bad), len(keys), bad)
	}
	return nil
}

func checkReminders(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.RemindersKey)
	if err != nil {
		return fmt.Errorf("failed to read reminders: %w", err)
	}
	if !ok {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return fmt.Errorf("reminders are not a JSON array: %w", err)
	}

	ids := make(map[string]bool, len(elems))
	for i, e := range elems {
		var r models.Reminder
		if err := json.Unmarshal(e, &r); err != nil {
			return fmt.Errorf("reminder %d is unreadable: %w", i, err)
		}
		if ids[r.ID] {
			return fmt.Errorf("duplicate reminder ID found: %s", r.ID)
		}
		ids[r.ID] = true
	}
	return nil
}

func checkScheduleConfig(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.ScheduleConfigKey)
	if err != nil {
		return fmt.Errorf("failed to read schedule config: %w", err)
	}
	if !ok {
		return nil
	}
	var cfg models.ScheduleConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return fmt.Errorf("schedule config is unreadable, defaults are in use: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("schedule config is invalid, defaults are in use: %w", err)
	}
	return nil
}

func checkQuota(ctx *cli.Context) error {
	limit := ctx.Config.QuotaBytes()
	sizer, ok := ctx.Store.(kv.Sizer)
	if !ok || limit <= 0 {
		return nil
	}
	used, err := sizer.Usage()
	if err != nil {
		return fmt.Errorf("failed to measure usage: %w", err)
	}
	if used > limit*9/10 {
		return fmt.Errorf("storage is %d%% full (%d of %d bytes)", used*100/limit, used, limit)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now
	if ctx.Now != nil {
		now = ctx.Now
	}
	t := now()
	if t.Year() < 2020 || t.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", t.Format(constants.TimestampFormat))
	}
	if _, err := ctx.Config.Location(); err != nil {
		return err
	}
	return nil
}
