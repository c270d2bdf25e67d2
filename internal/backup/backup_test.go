package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
)

func setupSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dayplanner.db")
	s := kv.NewSQLite(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := s.Set("planner-2026-01-05", `{"topPriorities":[]}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func readKey(t *testing.T, s kv.Storage, key string) string {
	t.Helper()
	defer s.Close()
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get(%q) = %q, %v, %v", key, v, ok, err)
	}
	return v
}

// stepClock returns a clock that advances a minute per call.
func stepClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func TestCreateSQLiteBackup(t *testing.T) {
	path := setupSQLite(t)
	mgr, err := NewManager(path, kv.BackendSQLite)
	if err != nil {
		t.Fatal(err)
	}

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(path), constants.BackupDirName) {
		t.Errorf("backup written to unexpected directory: %s", backupPath)
	}
	if !strings.HasPrefix(filepath.Base(backupPath), constants.BackupFilePrefix) {
		t.Errorf("unexpected backup name: %s", backupPath)
	}

	snap := kv.NewSQLite(backupPath)
	if got := readKey(t, snap, "planner-2026-01-05"); got != `{"topPriorities":[]}` {
		t.Errorf("backup value = %q", got)
	}
}

func TestCreateMissingStore(t *testing.T) {
	mgr, _ := NewManager(filepath.Join(t.TempDir(), "missing.db"), kv.BackendSQLite)
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing store")
	}
}

func TestCreateNameCollision(t *testing.T) {
	path := setupSQLite(t)
	mgr, _ := NewManager(path, kv.BackendSQLite)
	fixed := time.Date(2026, 3, 1, 9, 15, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		if seen[p] {
			t.Fatalf("duplicate backup path %s", p)
		}
		seen[p] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestRotation(t *testing.T) {
	path := setupSQLite(t)
	mgr, _ := NewManager(path, kv.BackendSQLite)
	mgr.now = stepClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local))

	var last string
	for i := 0; i < constants.MaxBackups+3; i++ {
		p, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		last = p
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	path := setupSQLite(t)
	mgr, _ := NewManager(path, kv.BackendSQLite)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage.db", constants.BackupFilePrefix + "20260101-1200.json"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %v", backups)
	}
}

func TestListMissingDir(t *testing.T) {
	mgr, _ := NewManager(filepath.Join(t.TempDir(), "x.db"), kv.BackendSQLite)
	backups, err := mgr.List()
	if err != nil || len(backups) != 0 {
		t.Errorf("List() = %v, %v", backups, err)
	}
}

func TestRestoreSQLite(t *testing.T) {
	path := setupSQLite(t)
	mgr, _ := NewManager(path, kv.BackendSQLite)
	mgr.now = stepClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local))

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	s := kv.NewSQLite(path)
	if err := s.Set("planner-2026-01-05", `{"changed":true}`); err != nil {
		t.Fatal(err)
	}
	s.Close()

	safety, err := mgr.Restore(backupPath)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if safety == "" {
		t.Error("expected a safety backup of the current store")
	}

	if got := readKey(t, kv.NewSQLite(path), "planner-2026-01-05"); got != `{"topPriorities":[]}` {
		t.Errorf("restored value = %q", got)
	}
	if got := readKey(t, kv.NewSQLite(safety), "planner-2026-01-05"); got != `{"changed":true}` {
		t.Errorf("safety backup value = %q", got)
	}
	if exists(path + ".restore.tmp") {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	path := setupSQLite(t)
	mgr, _ := NewManager(path, kv.BackendSQLite)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected error restoring invalid file")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error restoring missing file")
	}
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dayplanner.json")
	s := kv.NewFile(path)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("reminders", "[]"); err != nil {
		t.Fatal(err)
	}

	mgr, err := ForStorage(kv.WithQuota(s, 1024))
	if err != nil {
		t.Fatalf("ForStorage failed: %v", err)
	}
	mgr.now = stepClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local))

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("unexpected backup extension: %s", backupPath)
	}

	if err := s.Set("reminders", `[{"id":"x"}]`); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := readKey(t, kv.NewFile(path), "reminders"); got != "[]" {
		t.Errorf("restored value = %q", got)
	}
}

func TestUnsupportedBackends(t *testing.T) {
	if _, err := ForStorage(kv.NewMemory()); !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("memory: err = %v", err)
	}
	if _, err := NewManager("x", kv.BackendPostgres); !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("postgres: err = %v", err)
	}
}
