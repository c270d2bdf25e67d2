package models

import (
	"fmt"

	"github.com/julianstephens/dayplanner/internal/constants"
)

// ScheduleConfig is the visible hour range of the grid, in 24h hours.
type ScheduleConfig struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		StartHour: constants.DefaultStartHour,
		EndHour:   constants.DefaultEndHour,
	}
}

// Validate requires a morning start, an afternoon or evening end, and
// start before end.
func (c ScheduleConfig) Validate() error {
	if c.StartHour < constants.MinStartHour || c.StartHour > constants.MaxStartHour {
		return fmt.Errorf("start hour must be between %d and %d, got %d", constants.MinStartHour, constants.MaxStartHour, c.StartHour)
	}
	if c.EndHour < constants.MinEndHour || c.EndHour > constants.MaxEndHour {
		return fmt.Errorf("end hour must be between %d and %d, got %d", constants.MinEndHour, constants.MaxEndHour, c.EndHour)
	}
	if c.StartHour >= c.EndHour {
		return fmt.Errorf("start hour %d must be before end hour %d", c.StartHour, c.EndHour)
	}
	return nil
}
