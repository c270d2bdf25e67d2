package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/config"
	"github.com/julianstephens/dayplanner/internal/kv"
)

type InitCmd struct {
	Force bool `help:"Delete an existing local store before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := localPath(ctx.Store)

	if c.Force && path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := kv.Init(ctx.Store); err != nil {
		return err
	}
	if path != "" {
		ctx.Printf("Initialized dayplanner storage at: %s\n", path)
	} else {
		ctx.Printf("Initialized dayplanner storage (%s)\n", ctx.Backend)
	}

	if ctx.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(ctx.ConfigPath); err == nil {
		return nil
	}
	cfg := &config.Config{Storage: config.StorageConfig{Backend: string(ctx.Backend)}}
	if path != "" {
		cfg.Storage.Path = path
	}
	if err := os.MkdirAll(filepath.Dir(ctx.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.Write(ctx.ConfigPath, cfg); err != nil {
		return err
	}
	ctx.Printf("Wrote default config to: %s\n", ctx.ConfigPath)
	return nil
}

// localPath is the on-disk location of file-backed stores, or "" for
// remote and in-memory ones.
func localPath(s kv.Storage) string {
	switch st := kv.Underlying(s).(type) {
	case *kv.SQLite:
		return st.Path()
	case *kv.File:
		return st.Path()
	}
	return ""
}
