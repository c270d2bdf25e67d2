package system

import (
	"os"
	"strings"
	"testing"

	"github.com/julianstephens/dayplanner/internal/cli/clitest"
	"github.com/julianstephens/dayplanner/internal/config"
	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
)

func TestInitWritesConfigOnce(t *testing.T) {
	ctx, out := clitest.New(t)
	path := localPath(ctx.Store)
	if path == "" {
		t.Fatal("sqlite store should have a local path")
	}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized dayplanner storage at: "+path) {
		t.Errorf("unexpected output %q", out.String())
	}

	cfg, err := config.Load(ctx.ConfigPath)
	if err != nil || cfg == nil {
		t.Fatalf("config not written: %v", err)
	}
	if cfg.Storage.Backend != string(kv.BackendSQLite) || cfg.Storage.Path != path {
		t.Errorf("unexpected config %+v", cfg.Storage)
	}

	custom := []byte("timezone = \"UTC\"\n")
	if err := os.WriteFile(ctx.ConfigPath, custom, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(ctx.ConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(custom) {
		t.Errorf("existing config was overwritten: %q", got)
	}
}

func TestInitForce(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := ctx.Store.Set(constants.RemindersKey, "[]"); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing store at:") {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, ok, err := ctx.Store.Get(constants.RemindersKey); err != nil || ok {
		t.Errorf("store should be empty after --force, ok=%v err=%v", ok, err)
	}
}

func TestInitMemoryBackend(t *testing.T) {
	ctx, out := clitest.New(t)
	ctx.Store = kv.NewMemory()
	ctx.Backend = kv.BackendMemory
	ctx.ConfigPath = ""

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Initialized dayplanner storage (memory)") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestMigrate(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "No migrations to apply. Database is up to date.") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	ctx.Store = kv.NewMemory()
	ctx.Backend = kv.BackendMemory
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "The memory backend has no schema to migrate.") {
		t.Errorf("unexpected output %q", out.String())
	}
}
