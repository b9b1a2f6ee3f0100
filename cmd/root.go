package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/config"
	"github.com/ramanasai/streak/internal/db"
	"github.com/ramanasai/streak/internal/encryption"
	"github.com/ramanasai/streak/internal/events"
	"github.com/ramanasai/streak/internal/logger"
	"github.com/ramanasai/streak/internal/notify"
	"github.com/ramanasai/streak/internal/schedule"
	"github.com/ramanasai/streak/internal/version"
)

// app is the state shared by every subcommand, built once per invocation
// in PersistentPreRunE.
type app struct {
	cfgFile    string
	dbPath     string
	logLevel   string
	noReminder bool

	cfg   config.Config
	log   *slog.Logger
	bus   *events.Bus
	store *db.Store
	loc   *time.Location
	now   func() time.Time

	logFile *os.File
}

// Execute runs the CLI with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "streak",
		Short:         "Track sleep, exercise and study streaks",
		Version:       version.GetShortVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		// no subcommand opens the dashboard
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.config/streak/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file (default ~/.local/share/streak/streak.db)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	root.PersistentFlags().BoolVar(&a.noReminder, "no-reminder", false, "do not start the daily reminder")

	root.AddCommand(
		newLogCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newSummaryCmd(a),
		newHeatmapCmd(a),
		newTUICmd(a),
		newServeCmd(a),
		newPublishCmd(a),
		newRemindCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		if _, ok := logger.ParseLevel(a.logLevel); !ok {
			return fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		cfg.LogLevel = a.logLevel
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if cfg.DBPath == "" {
		p, err := db.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBPath = p
	}

	a.cfg = cfg
	a.loc = cfg.Location()
	if a.log == nil {
		log, err := a.newLogger(cmd)
		if err != nil {
			return err
		}
		a.log = log
	}
	a.bus = events.NewBus()

	opts := []db.Option{db.WithBus(a.bus), db.WithLogger(a.log), db.WithClock(a.now)}
	if cfg.Encryption.Enabled {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		enc, err := encryption.NewEncryptor(cfg.Encryption.Passphrase, dir)
		if err != nil {
			return fmt.Errorf("init encryption: %w", err)
		}
		opts = append(opts, db.WithEncryptor(enc))
	}
	a.store = db.New(cfg.DBPath, opts...)

	a.log.Debug("streak ready",
		slog.String("db", cfg.DBPath),
		slog.String("env", cfg.Env),
		slog.Bool("encryption", cfg.Encryption.Enabled),
	)
	return nil
}

// newLogger writes to stderr, except under the dashboard where stderr
// belongs to the alt screen and logs go to streak.log next to the database.
func (a *app) newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	if cmd != cmd.Root() && cmd.Name() != "tui" {
		return logger.New(a.cfg.Env, a.cfg.LogLevel), nil
	}
	dir := filepath.Dir(a.cfg.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "streak.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	a.logFile = f
	return logger.NewWithWriter(f, a.cfg.Env, a.cfg.LogLevel), nil
}

func (a *app) close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	if a.logFile != nil {
		err = errors.Join(err, a.logFile.Close())
	}
	return err
}

// startReminder runs the daily notification loop for long-lived commands.
func (a *app) startReminder(ctx context.Context) {
	if !a.cfg.Reminder.Enabled || a.noReminder || os.Getenv("STREAK_NO_REMINDER") == "1" {
		return
	}
	go schedule.RunConfigured(ctx, a.cfg, func(at time.Time) {
		if err := notify.Remind(ctx, a.store, at, a.loc, a.log); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn("reminder failed", slog.Any("error", err))
		}
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// skip config and store setup
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
		},
	}
}
