package constants

import "time"

const (
	AppName            = "trackfit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/trackfit"
	DefaultConfigFile  = "config.toml"
	DefaultDBFile      = "trackfit.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Logging
	LogDirName  = "logs"
	LogFileName = "trackfit.log"

	// Document keys
	DocumentActivities = "activities"
	DocumentProfile    = "profile"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "trackfit-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "trackfit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.trackfit"
	TrayExecutablePrefix   = "trackfit-tray"

	// Environment overrides
	EnvStorage      = "TRACKFIT_STORAGE"
	EnvDBConnection = "TRACKFIT_DB_CONNECTION"
	EnvHealthURL    = "TRACKFIT_HEALTH_URL"

	// Health sync
	ExternalEntryNameFormat  = "Synced %s data"
	CaloriesPerKmWalked      = 60
	DefaultHealthCacheSizeMB = 4
	DefaultHealthCacheTTL    = 5 * time.Minute
	DefaultHTTPTimeout       = 10 * time.Second

	// API
	DefaultListenAddr = "127.0.0.1:8787"
)
