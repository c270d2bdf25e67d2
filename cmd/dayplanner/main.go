package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/cli/backups"
	"github.com/julianstephens/dayplanner/internal/cli/days"
	"github.com/julianstephens/dayplanner/internal/cli/priorities"
	"github.com/julianstephens/dayplanner/internal/cli/reminders"
	"github.com/julianstephens/dayplanner/internal/cli/schedules"
	"github.com/julianstephens/dayplanner/internal/cli/slots"
	"github.com/julianstephens/dayplanner/internal/cli/system"
	"github.com/julianstephens/dayplanner/internal/config"
	"github.com/julianstephens/dayplanner/internal/constants"
	apperrors "github.com/julianstephens/dayplanner/internal/errors"
	"github.com/julianstephens/dayplanner/internal/keyring"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to config.toml." type:"string" default:"${config_path}"`
	Storage string `help:"Storage backend: memory, file, sqlite or postgres (env DAYPLANNER_STORAGE)."`
	DB      string `help:"Database or JSON file path, or PostgreSQL connection string without a password (env DAYPLANNER_DB)."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize dayplanner storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive planner." default:"1"`

	Day struct {
		Show   days.ShowCmd   `cmd:"" help:"Show a day." default:"1"`
		Clear  days.ClearCmd  `cmd:"" help:"Clear everything planned for a day."`
		Notes  days.NotesCmd  `cmd:"" help:"Show or set a day's notes."`
		List   days.ListCmd   `cmd:"" help:"List days with stored plans."`
		Export days.ExportCmd `cmd:"" help:"Export a day and its reminders."`
		Import days.ImportCmd `cmd:"" help:"Import a day exported with 'day export'."`
	} `cmd:"" help:"View and manage planner days."`

	Priority struct {
		Add    priorities.AddCmd    `cmd:"" help:"Add a top priority."`
		Done   priorities.DoneCmd   `cmd:"" help:"Toggle a priority's completion."`
		Rename priorities.RenameCmd `cmd:"" help:"Rename a priority."`
		Delete priorities.DeleteCmd `cmd:"" help:"Delete a priority and its subtasks."`
	} `cmd:"" help:"Manage top priorities."`

	Subtask struct {
		Add    priorities.SubtaskAddCmd    `cmd:"" help:"Add a subtask to a priority."`
		Done   priorities.SubtaskDoneCmd   `cmd:"" help:"Toggle a subtask's completion."`
		Rename priorities.SubtaskRenameCmd `cmd:"" help:"Rename a subtask."`
		Delete priorities.SubtaskDeleteCmd `cmd:"" help:"Delete a subtask."`
	} `cmd:"" help:"Manage priority subtasks."`

	Slot struct {
		Add    slots.AddCmd    `cmd:"" help:"Add an item to a time slot."`
		Drop   slots.DropCmd   `cmd:"" help:"Schedule a priority or subtask into a time slot."`
		Edit   slots.EditCmd   `cmd:"" help:"Edit an item's text."`
		Cycle  slots.CycleCmd  `cmd:"" help:"Cycle an item's status."`
		Delete slots.DeleteCmd `cmd:"" help:"Delete an item."`
	} `cmd:"" help:"Manage hourly schedule items."`

	Reminder struct {
		Add     reminders.AddCmd     `cmd:"" help:"Add a reminder."`
		List    reminders.ListCmd    `cmd:"" help:"List reminders." default:"1"`
		Update  reminders.UpdateCmd  `cmd:"" help:"Update a reminder."`
		Dismiss reminders.DismissCmd `cmd:"" help:"Dismiss a reminder."`
		Delete  reminders.DeleteCmd  `cmd:"" help:"Delete a reminder."`
		Notify  reminders.NotifyCmd  `cmd:"" help:"Send desktop notifications for due reminders."`
	} `cmd:"" help:"Manage reminders."`

	Schedule struct {
		Show schedules.ShowCmd `cmd:"" help:"Show the visible hour range." default:"1"`
		Set  schedules.SetCmd  `cmd:"" help:"Set the visible hour range."`
	} `cmd:"" help:"Configure the visible schedule hours."`

	Backup struct {
		Create  backups.CreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.ListCmd    `cmd:"" help:"List available backups."`
		Restore backups.RestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups of local storage."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	configDir, err := config.Dir()
	if err != nil {
		apperrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily planner: top priorities, an hourly schedule, notes and reminders."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(configDir),
		},
	)

	appCtx, err := newContext(configDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer appCtx.Store.Close()

	command := ctx.Command()
	if !skipsLoad(command) {
		if err := kv.Load(appCtx.Store); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

// skipsLoad lists commands that must run against a missing or outdated
// store.
func skipsLoad(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "init", "migrate", "doctor", "keyring":
		return true
	}
	return false
}

func newContext(configDir string) (*cli.Context, error) {
	configPath, err := config.ExpandHome(CLI.Config)
	if err != nil {
		return nil, err
	}
	fileCfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg := fileCfg.ApplyEnv(os.Getenv)
	if CLI.Storage != "" {
		cfg.Storage.Backend = CLI.Storage
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug(), ConfigDir: configDir}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}
	opts := kv.Options{Backend: backend, QuotaBytes: cfg.QuotaBytes()}
	switch backend {
	case kv.BackendPostgres:
		if opts.ConnString, err = connectionString(cfg); err != nil {
			return nil, err
		}
	case kv.BackendFile, kv.BackendSQLite:
		if CLI.DB != "" {
			cfg.Storage.Path = CLI.DB
		}
		if opts.Path, err = cfg.StoragePath(configDir); err != nil {
			return nil, err
		}
	}

	store, err := kv.Open(opts)
	if err != nil {
		if errors.Is(err, kv.ErrEmbeddedCredentials) {
			fmt.Fprintln(os.Stderr, "❌ PostgreSQL connection strings with embedded passwords are not allowed.")
			fmt.Fprintln(os.Stderr, "   Store it with 'dayplanner keyring set' or use a .pgpass file instead.")
		}
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return &cli.Context{
		Store:         store,
		Backend:       backend,
		Config:        cfg,
		ConfigDir:     configDir,
		ConfigPath:    configPath,
		Location:      loc,
		MarkdownStyle: markdownStyle(),
	}, nil
}

// connectionString prefers the --db flag, then the config and environment,
// then the OS keyring.
func connectionString(cfg *config.Config) (string, error) {
	if CLI.DB != "" {
		return CLI.DB, nil
	}
	if cfg.Storage.Connection != "" {
		return cfg.Storage.Connection, nil
	}
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", errors.New("no PostgreSQL connection configured. Set storage.connection, DAYPLANNER_DB_CONNECTION, or run 'dayplanner keyring set'")
	}
	return connStr, err
}

func markdownStyle() string {
	fi, err := os.Stdout.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return "notty"
	}
	return "dark"
}
