// Package kv provides the string key/value persistence capability the planner
// stores are built on, with interchangeable backends.
package kv

import "errors"

var (
	// ErrQuotaExceeded is returned by Set when the write would push the store
	// past its size limit. The existing value is left untouched.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrNotInitialized is returned by backends whose files or tables do not
	// exist yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'dayplanner init' first")
)

// Storage is a flat string-to-string map. Get reports absence with ok=false
// rather than an error.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	// Keys lists every key with the given prefix in ascending order.
	Keys(prefix string) ([]string, error)
	Close() error
}

// Sizer is implemented by backends that can report their total usage in
// bytes, counted as len(key)+len(value) over all entries.
type Sizer interface {
	Usage() (int64, error)
}

// Initializer is implemented by backends that need to create files or
// schema before first use.
type Initializer interface {
	Init() error
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
