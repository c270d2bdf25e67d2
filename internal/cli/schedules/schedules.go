package schedules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/schedule"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Schedule().Config()
	hours := schedule.Hours(cfg)
	ctx.Printf("Visible hours: %s to %s (%d slots)\n",
		timeslot.HourToDisplay(cfg.StartHour), timeslot.HourToDisplay(cfg.EndHour), len(hours)*2)
	return nil
}

type SetCmd struct {
	Start string `help:"First visible hour, e.g. 6 AM or 6."`
	End   string `help:"Last visible hour, e.g. 9 PM or 21."`
	Reset bool   `help:"Restore the default 7 AM to 11 PM."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	st := ctx.Schedule()
	cfg := st.Config()
	if c.Reset {
		cfg = models.DefaultScheduleConfig()
	}
	if c.Start == "" && c.End == "" && !c.Reset {
		return fmt.Errorf("nothing to change: pass --start, --end or --reset")
	}
	var err error
	if c.Start != "" {
		if cfg.StartHour, err = ParseHour(c.Start); err != nil {
			return err
		}
	}
	if c.End != "" {
		if cfg.EndHour, err = ParseHour(c.End); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := st.Update(cfg); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	ctx.Printf("✓ Visible hours set to %s to %s\n", timeslot.HourToDisplay(cfg.StartHour), timeslot.HourToDisplay(cfg.EndHour))
	return nil
}

// ParseHour accepts a 24h hour or the "H AM|PM" display form.
func ParseHour(s string) (int, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 23 {
		return n, nil
	}
	if !strings.Contains(s, " ") && (strings.HasSuffix(s, "AM") || strings.HasSuffix(s, "PM")) {
		s = s[:len(s)-2] + " " + s[len(s)-2:]
	}
	h := timeslot.DisplayToHour(s)
	if h < 0 || h > 23 || timeslot.HourToDisplay(h) != s {
		return 0, fmt.Errorf("invalid hour %q (expected e.g. 7 AM or 19)", s)
	}
	return h, nil
}
