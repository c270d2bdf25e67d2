package kv

import (
	"fmt"
	"strings"
)

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// ParseBackend accepts the backend names case-insensitively. Empty selects
// SQLite.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendSQLite, nil
	case BackendMemory, BackendFile, BackendSQLite, BackendPostgres:
		return b, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (want memory, file, sqlite or postgres)", s)
	}
}

type Options struct {
	Backend Backend
	// Path is the file or database location for file and sqlite.
	Path string
	// ConnString is the PostgreSQL connection string.
	ConnString string
	// QuotaBytes caps total usage; zero or negative disables the cap.
	QuotaBytes int64
}

// Open constructs the selected backend without touching disk or network.
// Call Init (when the result implements Initializer) to create it, or let
// the first operation load it.
func Open(opts Options) (Storage, error) {
	var s Storage
	switch opts.Backend {
	case BackendMemory:
		s = NewMemory()
	case BackendFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		s = NewFile(opts.Path)
	case BackendSQLite, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		s = NewSQLite(opts.Path)
	case BackendPostgres:
		if err := ValidateConnString(opts.ConnString); err != nil {
			return nil, err
		}
		s = NewPostgres(opts.ConnString)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
	return WithQuota(s, opts.QuotaBytes), nil
}

// Init initializes s when its backend requires it.
func Init(s Storage) error {
	if in, ok := s.(Initializer); ok {
		return in.Init()
	}
	return nil
}

// Loader is implemented by backends that must open existing state before
// use.
type Loader interface {
	Load() error
}

// Load opens s's existing state, returning ErrNotInitialized when there is
// none. Backends without persistent state load trivially.
func Load(s Storage) error {
	if l, ok := Underlying(s).(Loader); ok {
		return l.Load()
	}
	return nil
}
