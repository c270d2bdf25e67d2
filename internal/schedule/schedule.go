// Package schedule persists the visible hour range of the planner grid.
package schedule

import (
	"encoding/json"
	"sync"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/logger"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

// Load returns the stored config when it is present and valid, otherwise the
// default 7 AM to 11 PM range. It never fails.
func Load(store kv.Storage) models.ScheduleConfig {
	raw, ok, err := store.Get(constants.ScheduleConfigKey)
	if err != nil {
		logger.Error("Failed to read schedule config", "error", err)
		return models.DefaultScheduleConfig()
	}
	if !ok {
		return models.DefaultScheduleConfig()
	}

	// pointers distinguish a missing or non-numeric field from zero
	var stored struct {
		StartHour *int `json:"startHour"`
		EndHour   *int `json:"endHour"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.StartHour == nil || stored.EndHour == nil {
		logger.Debug("Ignoring unreadable schedule config", "value", raw)
		return models.DefaultScheduleConfig()
	}
	cfg := models.ScheduleConfig{StartHour: *stored.StartHour, EndHour: *stored.EndHour}
	if err := cfg.Validate(); err != nil {
		logger.Debug("Ignoring invalid schedule config", "error", err)
		return models.DefaultScheduleConfig()
	}
	return cfg
}

// Save writes cfg as given. Validation is up to the caller.
func Save(store kv.Storage, cfg models.ScheduleConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := store.Set(constants.ScheduleConfigKey, string(raw)); err != nil {
		logger.Error("Failed to save schedule config", "error", err)
		return err
	}
	return nil
}

// Hours lists the display hours visible under cfg.
func Hours(cfg models.ScheduleConfig) []string {
	return timeslot.HoursInRange(cfg.StartHour, cfg.EndHour)
}

// SlotKeys lists the grid keys visible under cfg.
func SlotKeys(cfg models.ScheduleConfig) []string {
	return timeslot.SlotKeysForHours(Hours(cfg))
}

// Store caches the config and writes every update through.
type Store struct {
	store kv.Storage

	mu  sync.RWMutex
	cfg models.ScheduleConfig
}

func New(store kv.Storage) *Store {
	return &Store{store: store, cfg: Load(store)}
}

func (s *Store) Config() models.ScheduleConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the config in memory and persists it. A storage failure is
// returned but the in-memory config still changes.
func (s *Store) Update(cfg models.ScheduleConfig) error {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return Save(s.store, cfg)
}
