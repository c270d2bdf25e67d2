package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "dayplanner"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/dayplanner"
	DefaultConfigFile  = "config.toml"
	DefaultDBFile      = "dayplanner.db"
	DefaultStoreFile   = "dayplanner.json"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is ISO-8601 with millisecond precision; values are always written in UTC
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Storage keys
	PlannerKeyPrefix  = "planner-"
	RemindersKey      = "reminders"
	ScheduleConfigKey = "schedule-config"

	// Planner constants
	MaxTopPriorities = 3
	DebounceDelay    = 500 * time.Millisecond

	// Default storage quota in bytes
	DefaultQuotaBytes = 5 * 1024 * 1024

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dayplanner-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "dayplanner-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.dayplanner"
	TrayExecutable         = "dayplanner-tray"
	SecretHeader           = "X-Dayplanner-Secret"
)

// Session States
const (
	StatePlanner SessionState = iota
	StateReminders
	StateEditing
	StateAddReminder
	StateEditSchedule
	StateConfirmClear
)
