package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockTimeout  = 3 * time.Second
	lockInterval = 50 * time.Millisecond
)

// File keeps every entry in one JSON object on disk. Writes take an advisory
// lock on <path>.lock and replace the file atomically.
type File struct {
	path     string
	fileLock *flock.Flock

	mu   sync.RWMutex
	data map[string]string
}

func NewFile(path string) *File {
	return &File{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}
}

func (f *File) Path() string { return f.path }

// Init creates an empty store file if none exists.
func (f *File) Init() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.path); err == nil {
		return f.loadLocked()
	}
	data := make(map[string]string)
	if err := f.withLock(func() error { return f.writeLocked(data) }); err != nil {
		return err
	}
	f.data = data
	return nil
}

// Load reads the store file, returning ErrNotInitialized when it is missing.
func (f *File) Load() error { return f.ensureLoaded() }

func (f *File) ensureLoaded() error {
	f.mu.RLock()
	loaded := f.data != nil
	f.mu.RUnlock()
	if loaded {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data != nil {
		return nil
	}
	return f.loadLocked()
}

func (f *File) loadLocked() error {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	data := make(map[string]string)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.path, err)
		}
	}
	f.data = data
	return nil
}

func (f *File) withLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := f.fileLock.TryLockContext(ctx, lockInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock on %s", f.fileLock.Path())
	}
	defer func() { _ = f.fileLock.Unlock() }()
	return fn()
}

func (f *File) writeLocked(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Get(key string) (string, bool, error) {
	if err := f.ensureLoaded(); err != nil {
		return "", false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) mutate(apply func(map[string]string)) error {
	if err := f.ensureLoaded(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.withLock(func() error {
		// another process may have written since we last read
		if err := f.loadLocked(); err != nil {
			return err
		}
		// the cache only takes the change once it is on disk
		next := make(map[string]string, len(f.data)+1)
		for k, v := range f.data {
			next[k] = v
		}
		apply(next)
		if err := f.writeLocked(next); err != nil {
			return err
		}
		f.data = next
		return nil
	})
}

func (f *File) Set(key, value string) error {
	return f.mutate(func(m map[string]string) { m[key] = value })
}

func (f *File) Delete(key string) error {
	return f.mutate(func(m map[string]string) { delete(m, key) })
}

func (f *File) Keys(prefix string) ([]string, error) {
	if err := f.ensureLoaded(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return sortedKeys(f.data, prefix), nil
}

func (f *File) Usage() (int64, error) {
	if err := f.ensureLoaded(); err != nil {
		return 0, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var n int64
	for k, v := range f.data {
		n += entrySize(k, v)
	}
	return n, nil
}

func (f *File) Close() error { return nil }
