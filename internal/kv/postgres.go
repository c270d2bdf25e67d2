package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/logger"
	"github.com/julianstephens/dayplanner/internal/migration"
	"github.com/julianstephens/dayplanner/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// Postgres stores entries in the kv table of a dedicated schema named after
// the application. Passwords come from .pgpass or PGPASSWORD, never the
// connection string.
type Postgres struct {
	connStr string
	db      *sql.DB
}

func NewPostgres(connStr string) *Postgres {
	return &Postgres{connStr: withSearchPath(connStr)}
}

func withSearchPath(connStr string) string {
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if dsnHas(connStr, "search_path") {
		return connStr
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

func dsnHas(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return true
		}
	}
	return false
}

// ValidateConnString accepts URL or key=value connection strings that carry
// no password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}
	if dsnHas(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func (p *Postgres) open() error {
	if p.db != nil {
		return nil
	}
	if err := ValidateConnString(p.connStr); err != nil {
		return err
	}
	db, err := sql.Open("postgres", p.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(p.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: add sslmode=disable)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	p.db = db
	return nil
}

func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, "sslmode") {
				return true
			}
		}
	}
	return dsnHas(connStr, "sslmode")
}

func (p *Postgres) runner() (*migration.Runner, error) {
	sub, err := migration.Sub(migrations.FS, migration.Postgres)
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(p.db, sub, migration.Postgres), nil
}

// Init creates the schema and applies pending migrations.
func (p *Postgres) Init() error {
	if err := p.open(); err != nil {
		return err
	}
	if _, err := p.db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	runner, err := p.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (p *Postgres) Load() error {
	if p.db != nil {
		return nil
	}
	if err := p.open(); err != nil {
		return err
	}
	runner, err := p.runner()
	if err != nil {
		return err
	}
	return runner.Validate()
}

func (p *Postgres) Migrate(logFn func(string)) (int, error) {
	if err := p.Init(); err != nil {
		return 0, err
	}
	runner, err := p.runner()
	if err != nil {
		return 0, err
	}
	return runner.Apply(logFn)
}

func (p *Postgres) Get(key string) (string, bool, error) {
	if err := p.Load(); err != nil {
		return "", false, err
	}
	var value string
	err := p.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(key, value string) error {
	if err := p.Load(); err != nil {
		return err
	}
	_, err := p.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(key string) error {
	if err := p.Load(); err != nil {
		return err
	}
	if _, err := p.db.Exec("DELETE FROM kv WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Keys(prefix string) ([]string, error) {
	if err := p.Load(); err != nil {
		return nil, err
	}
	rows, err := p.db.Query("SELECT key FROM kv WHERE starts_with(key, $1) ORDER BY key", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()
	return scanKeys(rows)
}

func (p *Postgres) Usage() (int64, error) {
	if err := p.Load(); err != nil {
		return 0, err
	}
	var n int64
	if err := p.db.QueryRow("SELECT COALESCE(SUM(octet_length(key) + octet_length(value)), 0) FROM kv").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to measure usage: %w", err)
	}
	return n, nil
}

func (p *Postgres) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
