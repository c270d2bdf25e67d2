// Package planner persists one PlannerDay per calendar date, upgrading older
// record shapes on read and debouncing writes through a Session.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/logger"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

// ErrNotObject is returned by Decode when the stored text is not a JSON object.
var ErrNotObject = errors.New("planner record is not a JSON object")

// StorageKey returns "planner-YYYY-MM-DD" using date's own calendar day.
func StorageKey(date time.Time) string {
	return constants.PlannerKeyPrefix + timeslot.DateKey(date)
}

// DateFromKey parses a StorageKey back into a date in loc.
func DateFromKey(key string, loc *time.Location) (time.Time, bool) {
	if len(key) <= len(constants.PlannerKeyPrefix) || key[:len(constants.PlannerKeyPrefix)] != constants.PlannerKeyPrefix {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(constants.DateFormat, key[len(constants.PlannerKeyPrefix):], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func defaultSlots() map[string][]models.HourlyItem {
	keys := timeslot.SlotKeys()
	slots := make(map[string][]models.HourlyItem, len(keys))
	for _, k := range keys {
		slots[k] = []models.HourlyItem{}
	}
	return slots
}

// Default returns an empty day with every grid slot present.
func Default() models.PlannerDay {
	return models.PlannerDay{
		TopPriorities: []models.TopPriority{},
		BrainDump:     "",
		HourlySlots:   defaultSlots(),
	}
}

// Decode upgrades any stored record shape to the current one. The result
// always has every grid slot and at most three field-complete priorities.
//
// Priorities come from topPriorities, else the legacy priorities strings.
// Slots come from hourlySlots merged over the default grid, else legacy
// hourlyPlans with statuses from hourlyStatuses or hourlyCompleted.
func Decode(raw []byte) (models.PlannerDay, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.PlannerDay{}, fmt.Errorf("failed to parse planner record: %w", err)
	}
	if fields == nil {
		return models.PlannerDay{}, ErrNotObject
	}

	var r rawDay
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.PlannerDay{}, fmt.Errorf("failed to parse planner record: %w", err)
	}

	return models.PlannerDay{
		TopPriorities: decodePriorities(r),
		BrainDump:     decodeString(r.BrainDump),
		HourlySlots:   decodeHourly(r),
		LastSaved:     decodeString(r.LastSaved),
	}, nil
}

// Load reads and upgrades the record for date. ok is false when nothing is
// stored, the backend fails, or the stored text cannot be parsed; failures
// are logged, never returned.
func Load(store kv.Storage, date time.Time) (models.PlannerDay, bool) {
	key := StorageKey(date)
	raw, found, err := store.Get(key)
	if err != nil {
		logger.Error("Failed to read planner data", "key", key, "error", err)
		return models.PlannerDay{}, false
	}
	if !found || raw == "" {
		return models.PlannerDay{}, false
	}

	day, err := Decode([]byte(raw))
	if err != nil {
		logger.Warn("Failed to load planner data", "key", key, "error", err)
		return models.PlannerDay{}, false
	}
	return day, true
}

// LoadOrDefault returns the stored day for date or a fresh default.
func LoadOrDefault(store kv.Storage, date time.Time) models.PlannerDay {
	if day, ok := Load(store, date); ok {
		return day
	}
	return Default()
}

// Encode stamps lastSaved with now and serialises day.
func Encode(day models.PlannerDay, now time.Time) ([]byte, error) {
	out := normalize(day)
	out.LastSaved = now.UTC().Format(constants.TimestampFormat)
	return json.Marshal(out)
}

// Save writes day under date's key with a fresh lastSaved. A quota failure is
// logged as a warning and any other failure as an error; either way the write
// is dropped and the error returned for callers that want to surface it.
func Save(store kv.Storage, date time.Time, day models.PlannerDay) error {
	key := StorageKey(date)
	raw, err := Encode(day, time.Now())
	if err != nil {
		logger.Error("Failed to encode planner data", "key", key, "error", err)
		return err
	}
	if err := store.Set(key, string(raw)); err != nil {
		if errors.Is(err, kv.ErrQuotaExceeded) {
			logger.Warn("Storage quota exceeded, planner data not saved", "key", key)
		} else {
			logger.Error("Failed to save planner data", "key", key, "error", err)
		}
		return err
	}
	logger.Debug("Saved planner data", "key", key, "bytes", len(raw))
	return nil
}

// Dates lists every date with a stored record, oldest first.
func Dates(store kv.Storage, loc *time.Location) ([]time.Time, error) {
	keys, err := store.Keys(constants.PlannerKeyPrefix)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		if d, ok := DateFromKey(k, loc); ok {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// normalize replaces nil collections with empty ones so the stored JSON
// never carries null where a list or map belongs.
func normalize(day models.PlannerDay) models.PlannerDay {
	out := day.Clone()
	if out.TopPriorities == nil {
		out.TopPriorities = []models.TopPriority{}
	}
	if out.HourlySlots == nil {
		out.HourlySlots = map[string][]models.HourlyItem{}
	}
	for k, items := range out.HourlySlots {
		if items == nil {
			out.HourlySlots[k] = []models.HourlyItem{}
		}
	}
	return out
}
