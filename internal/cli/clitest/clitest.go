// Package clitest builds command contexts over a throwaway SQLite store.
package clitest

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
)

// Now is the fixed clock of every context built here: Tuesday 2026-03-10,
// 9:00 AM UTC.
var Now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// New returns an initialized context and the buffer its output goes to.
func New(t testing.TB) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, constants.DefaultDBFile)

	store := kv.WithQuota(kv.NewSQLite(path), constants.DefaultQuotaBytes)
	if err := kv.Init(store); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:         store,
		Backend:       kv.BackendSQLite,
		ConfigDir:     dir,
		ConfigPath:    filepath.Join(dir, constants.DefaultConfigFile),
		Location:      time.UTC,
		MarkdownStyle: "notty",
		Out:           out,
		In:            strings.NewReader(""),
		Now:           func() time.Time { return Now },
	}, out
}

// Answer feeds input to the next confirmation prompts.
func Answer(ctx *cli.Context, input string) {
	ctx.In = strings.NewReader(input)
}
