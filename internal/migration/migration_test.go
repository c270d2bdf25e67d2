package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dayplanner/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range files {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n == 1
}

func TestCurrentVersion(t *testing.T) {
	runner := NewRunner(openTestDB(t), mapFS(nil), SQLite)

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestMigrationsSorted(t *testing.T) {
	runner := NewRunner(openTestDB(t), mapFS(map[string]string{
		"003_another.sql": "CREATE TABLE b (id INTEGER);",
		"001_init.sql":    "CREATE TABLE a (id INTEGER);",
		"002_update.sql":  "ALTER TABLE a ADD COLUMN name TEXT;",
		"README.md":       "ignored",
	}), SQLite)

	ms, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	if len(ms) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(ms))
	}
	want := []string{"init", "update", "another"}
	for i, m := range ms {
		if m.Version != i+1 || m.Name != want[i] {
			t.Errorf("migration %d = (%d, %q), want (%d, %q)", i, m.Version, m.Name, i+1, want[i])
		}
	}
}

func TestMigrationsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{"no underscore", map[string]string{"001init.sql": "SELECT 1;"}, "invalid migration filename"},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}, "version must be at least 1"},
		{"not a number", map[string]string{"abc_init.sql": "SELECT 1;"}, "invalid version number"},
		{"duplicate", map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}, "duplicate migration version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(openTestDB(t), mapFS(tt.files), SQLite)
			_, err := runner.Migrations()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyFromScratchAndNoOp(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_users.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}), SQLite)

	var logged []string
	count, err := runner.Apply(func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("expected both tables to exist")
	}

	count, err = runner.Apply(nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no-op on second run, got %d", count)
	}
}

func TestApplyIncremental(t *testing.T) {
	db := openTestDB(t)
	files := mapFS(map[string]string{
		"001_users.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	})
	runner := NewRunner(db, files, SQLite)

	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	files["002_posts.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY);")}
	count, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}
	if v, _ := runner.CurrentVersion(); v != 2 {
		t.Errorf("expected version 2, got %d", v)
	}
}

func TestApplyRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_broken.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);\nTHIS IS INVALID SQL;",
	}), SQLite)

	if _, err := runner.Apply(nil); err == nil {
		t.Fatal("expected Apply to fail on invalid SQL")
	}
	if v, _ := runner.CurrentVersion(); v != 0 {
		t.Errorf("expected version 0 after rollback, got %d", v)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after rollback")
	}
}

func TestSchemaTooNew(t *testing.T) {
	runner := NewRunner(openTestDB(t), mapFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER);",
	}), SQLite)

	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.Validate(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Validate: expected ErrSchemaTooNew, got %v", err)
	}
	if _, err := runner.Apply(nil); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply: expected ErrSchemaTooNew, got %v", err)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	db := openTestDB(t)
	sub, err := Sub(migrations.FS, SQLite)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	runner := NewRunner(db, sub, SQLite)

	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !tableExists(t, db, "kv") {
		t.Fatal("expected kv table")
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if v, _ := runner.CurrentVersion(); v != latest {
		t.Errorf("expected version %d, got %d", latest, v)
	}
	if err := runner.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestEmbeddedPostgresMigrationsParse(t *testing.T) {
	sub, err := Sub(migrations.FS, Postgres)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	ms, err := NewRunner(nil, sub, Postgres).Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	if len(ms) == 0 || ms[0].Name != "kv" {
		t.Errorf("unexpected postgres migrations: %+v", ms)
	}
}
