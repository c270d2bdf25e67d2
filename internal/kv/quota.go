package kv

import "fmt"

// Quota wraps a Storage and rejects writes that would take total usage past
// Limit, mirroring a browser's localStorage quota.
type Quota struct {
	Storage
	sizer Sizer
	Limit int64
}

// WithQuota returns inner unchanged when limit <= 0 or inner cannot report its
// usage.
func WithQuota(inner Storage, limit int64) Storage {
	sizer, ok := inner.(Sizer)
	if limit <= 0 || !ok {
		return inner
	}
	return &Quota{Storage: inner, sizer: sizer, Limit: limit}
}

func (q *Quota) Set(key, value string) error {
	used, err := q.sizer.Usage()
	if err != nil {
		return fmt.Errorf("failed to measure storage usage: %w", err)
	}
	prev, ok, err := q.Storage.Get(key)
	if err != nil {
		return err
	}
	next := used + entrySize(key, value)
	if ok {
		next -= entrySize(key, prev)
	}
	if next > q.Limit {
		return fmt.Errorf("%w: writing %q needs %d of %d bytes", ErrQuotaExceeded, key, next, q.Limit)
	}
	return q.Storage.Set(key, value)
}

func (q *Quota) Usage() (int64, error) {
	return q.sizer.Usage()
}

// Init forwards to the wrapped backend when it needs initialization.
func (q *Quota) Init() error {
	if in, ok := q.Storage.(Initializer); ok {
		return in.Init()
	}
	return nil
}

func (q *Quota) Unwrap() Storage { return q.Storage }

// Underlying strips wrappers such as Quota and returns the concrete backend.
func Underlying(s Storage) Storage {
	for {
		w, ok := s.(interface{ Unwrap() Storage })
		if !ok {
			return s
		}
		s = w.Unwrap()
	}
}
