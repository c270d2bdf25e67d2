package planner

import (
	"sync"
	"time"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/models"
)

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type SessionOption func(*Session)

// WithDebounce sets the quiet period before a pending write is flushed.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithAfterFunc replaces the timer source, mainly for tests.
func WithAfterFunc(fn AfterFunc) SessionOption {
	return func(s *Session) { s.afterFunc = fn }
}

// WithErrorHandler is called with every failed write while the session is
// locked, so fn must not call back into it. Failed writes are never retried.
func WithErrorHandler(fn func(date time.Time, err error)) SessionOption {
	return func(s *Session) { s.onError = fn }
}

// Session holds the day being edited and writes it back after a quiet period.
// Every mutation resets the timer, so only the latest state in a burst is
// written. Switching dates or closing flushes the outgoing day synchronously.
type Session struct {
	store     kv.Storage
	delay     time.Duration
	afterFunc AfterFunc
	onError   func(time.Time, error)

	mu      sync.Mutex
	date    time.Time
	hasDate bool
	data    models.PlannerDay
	loading bool
	timer   Timer
	// gen is bumped whenever a pending write is superseded or cancelled; a
	// timer carrying an older generation writes nothing.
	gen    uint64
	closed bool
}

func NewSession(store kv.Storage, opts ...SessionOption) *Session {
	s := &Session{
		store:     store,
		delay:     constants.DebounceDelay,
		afterFunc: realAfterFunc,
		data:      Default(),
		loading:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDate makes date the active day. When another day was active, its
// pending write is cancelled and its latest state saved before the new day
// is loaded; a closed session only switches in memory. Selecting the already active day is a no-op.
func (s *Session) SetDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasDate && StorageKey(s.date) == StorageKey(date) {
		return
	}
	if s.hasDate && !s.closed {
		s.flushLocked()
	}

	s.loading = true
	s.data = LoadOrDefault(s.store, date)
	s.date = date
	s.hasDate = true
	s.loading = false
}

// Date returns the active day; ok is false before the first SetDate.
func (s *Session) Date() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date, s.hasDate
}

// Data returns a copy of the in-memory day.
func (s *Session) Data() models.PlannerDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Set replaces the day and schedules a write.
func (s *Session) Set(day models.PlannerDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = day.Clone()
	s.scheduleLocked()
}

// Update applies fn to a copy of the current day, stores the result and
// schedules a write. fn must not call back into the Session.
func (s *Session) Update(fn func(models.PlannerDay) models.PlannerDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = fn(s.data.Clone())
	s.scheduleLocked()
}

// Flush cancels any pending write and saves the current day now. It does
// nothing once the session is closed.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasDate || s.closed {
		return nil
	}
	return s.flushLocked()
}

// Close flushes the active day. Later mutations stay in memory only.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	var err error
	if s.hasDate {
		err = s.flushLocked()
	}
	s.closed = true
	return err
}

func (s *Session) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Session) scheduleLocked() {
	s.cancelLocked()
	if !s.hasDate || s.closed {
		return
	}
	gen := s.gen
	s.timer = s.afterFunc(s.delay, func() { s.fire(gen) })
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		return
	}
	s.timer = nil
	s.saveLocked()
}

func (s *Session) flushLocked() error {
	s.cancelLocked()
	return s.saveLocked()
}

func (s *Session) saveLocked() error {
	err := Save(s.store, s.date, s.data)
	if err != nil && s.onError != nil {
		s.onError(s.date, err)
	}
	return err
}
