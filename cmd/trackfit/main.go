package main

import (
	"net/http"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/cli/activities"
	"github.com/julianstephens/trackfit/internal/cli/backups"
	"github.com/julianstephens/trackfit/internal/cli/goals"
	"github.com/julianstephens/trackfit/internal/cli/progress"
	"github.com/julianstephens/trackfit/internal/cli/settings"
	"github.com/julianstephens/trackfit/internal/cli/system"
	"github.com/julianstephens/trackfit/internal/config"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/errors"
	"github.com/julianstephens/trackfit/internal/health"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/notifier"
	"github.com/julianstephens/trackfit/internal/observability"
	"github.com/julianstephens/trackfit/internal/storage"
)

var CLI struct {
	Version     kong.VersionFlag
	Config      string `help:"Config file path." type:"path" default:"~/.config/trackfit/config.toml"`
	Storage     string `help:"Override storage: a .db file, a JSON directory, 'memory', or a PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded; use the OS keyring, TRACKFIT_DB_CONNECTION or .pgpass."`
	Debug       bool   `help:"Log debug output to stderr."`
	MetricsFile string `help:"Write Prometheus metrics to this file when the command finishes." type:"path"`

	Init      system.InitCmd      `cmd:"" help:"Initialize trackfit storage."`
	Doctor    system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Home      progress.HomeCmd    `cmd:"" help:"Show the home screen summary." default:"1"`
	Progress  progress.ProgressCmd `cmd:"" help:"Show weekly goal progress."`
	Summary   progress.SummaryCmd `cmd:"" help:"Summarize a week, month or year."`
	Series    progress.SeriesCmd  `cmd:"" help:"Show a metric per day or month."`
	Sync      system.SyncCmd      `cmd:"" help:"Sync this week's data from the health source."`
	Stopwatch system.StopwatchCmd `cmd:"" help:"Time an activity and record it."`
	Serve     system.ServeCmd     `cmd:"" help:"Serve the read-only HTTP API."`
	Reset     system.ResetCmd     `cmd:"" help:"Reset goals, badges and preferences to defaults."`
	Activity  struct {
		Add    activities.ActivityAddCmd    `cmd:"" help:"Record an activity."`
		Edit   activities.ActivityEditCmd   `cmd:"" help:"Edit a recorded activity."`
		Delete activities.ActivityDeleteCmd `cmd:"" help:"Delete activities."`
		List   activities.ActivityListCmd   `cmd:"" help:"List activities." default:"1"`
	} `cmd:"" help:"Manage activities."`
	Goal struct {
		Set    goals.GoalSetCmd    `cmd:"" help:"Create or update a weekly goal."`
		Delete goals.GoalDeleteCmd `cmd:"" help:"Delete a goal."`
		List   goals.GoalListCmd   `cmd:"" help:"List goals with progress." default:"1"`
	} `cmd:"" help:"Manage weekly goals."`
	Badge struct {
		List progress.BadgeListCmd `cmd:"" help:"List achieved and pending badges." default:"1"`
	} `cmd:"" help:"Show badges."`
	Profile struct {
		Show       settings.ProfileShowCmd `cmd:"" help:"Show the profile." default:"1"`
		Set        settings.ProfileSetCmd  `cmd:"" help:"Set a preference."`
		Keys       settings.ProfileKeysCmd `cmd:"" help:"List preference keys."`
		WeekStart  settings.WeekStartCmd   `cmd:"" name:"week-start" help:"Set the first day of the week."`
		Home       settings.HomeItemsCmd   `cmd:"" help:"Choose the categories shown on the home screen."`
		Categories settings.CategoriesCmd  `cmd:"" help:"Choose preferred categories."`
	} `cmd:"" help:"Manage profile preferences."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show where the connection string comes from."`
	} `cmd:"" help:"Manage the PostgreSQL connection string."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Fitness activity tracking and weekly progress"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Storage != "" {
		cfg.Backend, cfg.Storage = config.InferBackend(CLI.Storage)
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.MetricsFile != "" {
		cfg.API.MetricsFile = CLI.MetricsFile
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Level: cfg.LogLevel, ConfigDir: cfg.Dir()}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.NewProvider(cfg.Backend, cfg.Storage)
	if err != nil {
		// keyring commands configure the connection string and never touch storage
		if !strings.HasPrefix(ctx.Command(), "keyring") {
			errors.Fatal(err)
		}
		store = storage.NewMemoryStore()
	}

	opts, err := engineOptions(cfg)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
		Store:      store,
		Options:    opts,
	}

	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	if err == nil && cfg.API.MetricsFile != "" {
		err = observability.WriteTextfile(cfg.API.MetricsFile)
	}
	errors.Fatal(err)
}

func engineOptions(cfg config.Config) ([]engine.Option, error) {
	opts := []engine.Option{engine.WithNotifier(notifier.New())}

	cats, err := cfg.SyncCategories()
	if err != nil {
		return nil, err
	}

	var src health.Source
	switch {
	case cfg.Health.URL != "":
		src = health.NewHTTPSource(cfg.Health.URL,
			health.WithHTTPClient(&http.Client{Timeout: cfg.Health.Timeout}),
			health.WithCache(cfg.Health.CacheSizeMB*1024*1024, cfg.Health.CacheTTL),
		)
	case cfg.Health.File != "":
		src = health.NewFileSource(cfg.Health.File)
	}
	if src != nil {
		opts = append(opts, engine.WithHealthSource(src, cats...))
	}
	return opts, nil
}
