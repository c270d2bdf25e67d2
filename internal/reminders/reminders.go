// Package reminders keeps the flat reminder collection under a single storage
// key and classifies reminders as past due or upcoming.
package reminders

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/logger"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

var (
	ErrNotFound  = errors.New("reminder not found")
	ErrAmbiguous = errors.New("reminder id prefix matches more than one reminder")
)

// IsPastDue reports whether r's slot has started before now. Dates compare as
// YYYY-MM-DD strings; on the same day the slot is past due only once now is
// strictly after its start minute. Dismissed reminders are never past due.
func IsPastDue(r models.Reminder, now time.Time) bool {
	if r.Dismissed {
		return false
	}
	today := timeslot.DateKey(now)
	switch {
	case r.Date < today:
		return true
	case r.Date > today:
		return false
	}
	hour, minute := now.Hour(), now.Minute()
	if hour != r.Hour() {
		return hour > r.Hour()
	}
	return minute > r.Minute()
}

// IsUpcoming reports whether r is on a later day, or later today and not yet
// past due.
func IsUpcoming(r models.Reminder, now time.Time) bool {
	if r.Dismissed {
		return false
	}
	today := timeslot.DateKey(now)
	switch {
	case r.Date > today:
		return true
	case r.Date < today:
		return false
	}
	return !IsPastDue(r, now)
}

// SortBySlot orders reminders by date, then hour, then minute, keeping the
// relative order of equal keys.
func SortBySlot(rs []models.Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Hour() != b.Hour() {
			return a.Hour() < b.Hour()
		}
		return a.Minute() < b.Minute()
	})
}

// StartTime returns the moment r's slot begins in loc.
func StartTime(r models.Reminder, loc *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(constants.DateFormat, r.Date, loc)
	if err != nil || !timeslot.IsDisplay(r.TimeSlot) {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), r.Hour(), r.Minute(), 0, 0, loc), true
}

// Due returns the undismissed reminders whose slot started within window
// before now, including a slot starting exactly at now. A notifier polling
// every window sees each reminder once.
func Due(rs []models.Reminder, now time.Time, window time.Duration) []models.Reminder {
	var out []models.Reminder
	for _, r := range rs {
		if r.Dismissed {
			continue
		}
		start, ok := StartTime(r, now.Location())
		if !ok {
			continue
		}
		if !start.After(now) && now.Sub(start) < window {
			out = append(out, r)
		}
	}
	SortBySlot(out)
	return out
}

// Load reads the stored collection. A missing, corrupt or non-array value
// yields an empty collection; elements that cannot be decoded are left out.
func Load(store kv.Storage) []models.Reminder {
	rs, _ := load(store)
	return rs
}

// load also returns the elements that could not be decoded, verbatim, so a
// later write can keep them.
func load(store kv.Storage) ([]models.Reminder, []json.RawMessage) {
	raw, ok, err := store.Get(constants.RemindersKey)
	if err != nil {
		logger.Error("Failed to read reminders", "error", err)
		return []models.Reminder{}, nil
	}
	if !ok || raw == "" {
		return []models.Reminder{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		logger.Warn("Failed to load reminders", "error", err)
		return []models.Reminder{}, nil
	}
	out := make([]models.Reminder, 0, len(elems))
	var unreadable []json.RawMessage
	for i, e := range elems {
		var r models.Reminder
		if err := json.Unmarshal(e, &r); err != nil {
			logger.Warn("Keeping unreadable reminder as stored", "index", i, "error", err)
			unreadable = append(unreadable, e)
			continue
		}
		out = append(out, r)
	}
	return out, unreadable
}

// Save writes the whole collection. Failures are logged and returned; the
// write is not retried.
func Save(store kv.Storage, rs []models.Reminder) error {
	return save(store, rs, nil)
}

// save writes rs followed by the raw elements in keep.
func save(store kv.Storage, rs []models.Reminder, keep []json.RawMessage) error {
	elems := make([]json.RawMessage, 0, len(rs)+len(keep))
	for _, r := range rs {
		e, err := json.Marshal(r)
		if err != nil {
			logger.Error("Failed to encode reminders", "error", err)
			return err
		}
		elems = append(elems, e)
	}
	elems = append(elems, keep...)
	raw, err := json.Marshal(elems)
	if err != nil {
		logger.Error("Failed to encode reminders", "error", err)
		return err
	}
	if err := store.Set(constants.RemindersKey, string(raw)); err != nil {
		if errors.Is(err, kv.ErrQuotaExceeded) {
			logger.Warn("Storage quota exceeded, reminders not saved")
		} else {
			logger.Error("Failed to save reminders", "error", err)
		}
		return err
	}
	return nil
}

type Option func(*Store)

// WithClock overrides time.Now for classification and creation stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the in-memory reminder collection, written through to storage on
// every mutation.
type Store struct {
	store kv.Storage
	now   func() time.Time

	mu    sync.RWMutex
	items []models.Reminder

	// unreadable holds stored elements that failed to decode; they are
	// written back unchanged.
	unreadable []json.RawMessage
}

func New(store kv.Storage, opts ...Option) *Store {
	s := &Store{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.items, s.unreadable = load(store)
	return s
}

// Reload replaces the in-memory collection with the stored one.
func (s *Store) Reload() {
	items, unreadable := load(s.store)
	s.mu.Lock()
	s.items, s.unreadable = items, unreadable
	s.mu.Unlock()
}

func (s *Store) persistLocked() {
	_ = save(s.store, s.items, s.unreadable)
}

// Add validates n and appends a new reminder. The only error is a validation
// error; storage failures are logged.
func (s *Store) Add(n models.NewReminder) (models.Reminder, error) {
	if err := n.Validate(); err != nil {
		return models.Reminder{}, err
	}
	n = n.Normalize()
	r := models.Reminder{
		ID:          uuid.NewString(),
		Title:       n.Title,
		Description: n.Description,
		Date:        n.Date,
		TimeSlot:    n.TimeSlot,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	s.persistLocked()
	return r, nil
}

func (s *Store) indexLocked(id string) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Update(id string, patch models.ReminderPatch) (models.Reminder, error) {
	if err := patch.Validate(); err != nil {
		return models.Reminder{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.items[i] = patch.Apply(s.items[i])
	s.persistLocked()
	return s.items[i], nil
}

func (s *Store) Dismiss(id string) error {
	dismissed := true
	_, err := s.Update(id, models.ReminderPatch{Dismissed: &dismissed})
	return err
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persistLocked()
	return nil
}

// Resolve finds a reminder by full id or unique id prefix.
func (s *Store) Resolve(ref string) (models.Reminder, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Reminder{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var match []models.Reminder
	for _, r := range s.items {
		if r.ID == ref {
			return r, nil
		}
		if strings.HasPrefix(r.ID, ref) {
			match = append(match, r)
		}
	}
	switch len(match) {
	case 0:
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return match[0], nil
	default:
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
	}
}

func (s *Store) filter(keep func(models.Reminder) bool) []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Reminder{}
	for _, r := range s.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// All returns a copy of every reminder in insertion order.
func (s *Store) All() []models.Reminder {
	return s.filter(func(models.Reminder) bool { return true })
}

func (s *Store) ForDate(date time.Time) []models.Reminder {
	key := timeslot.DateKey(date)
	return s.filter(func(r models.Reminder) bool { return r.Date == key })
}

// ForSlot matches the display time slot, e.g. "9:30 AM".
func (s *Store) ForSlot(date time.Time, timeSlot string) []models.Reminder {
	key := timeslot.DateKey(date)
	return s.filter(func(r models.Reminder) bool { return r.Date == key && r.TimeSlot == timeSlot })
}

func (s *Store) PastDue() []models.Reminder {
	now := s.now()
	return s.filter(func(r models.Reminder) bool { return IsPastDue(r, now) })
}

// Upcoming returns the upcoming reminders sorted by slot.
func (s *Store) Upcoming() []models.Reminder {
	now := s.now()
	out := s.filter(func(r models.Reminder) bool { return IsUpcoming(r, now) })
	SortBySlot(out)
	return out
}

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.now() }
