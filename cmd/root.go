package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"shopclock/audit"
	"shopclock/config"
	"shopclock/database"
	"shopclock/timetrack"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shopclock",
	Short: "Technician time tracking for the repair shop",
	Long: `shopclock records when technicians clock in and out, lets managers correct
entries with an audited reason, and reports worked hours per day and week.

Run "shopclock serve" for the HTTP API, or use the subcommands directly against
the configured store.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("SHOPCLOCK_CONFIG"), "path to a TOML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(clockInCmd)
	rootCmd.AddCommand(clockOutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

// app bundles what every command needs once the config is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	repo   database.Repository
	bus    *audit.Bus
	svc    *timetrack.Service
}

func openApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	repo, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.DatabaseDriver, err)
	}

	sinks := []audit.Sink{audit.SlogSink{Logger: logger}}
	if g, ok := repo.(*database.GormRepository); ok {
		sinks = append(sinks, audit.GormSink{DB: g.DB()})
	}
	bus := audit.NewBus(cfg.AuditBufferSize, logger, sinks...)

	return &app{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		bus:    bus,
		svc: timetrack.New(repo, bus,
			timetrack.WithLocation(loc),
			timetrack.WithLogger(logger),
		),
	}, nil
}

// withApp runs fn with the activity log bus draining in the background and flushes it
// before the store is closed.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.repo.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.bus.Run(ctx)
	}()

	err = fn(ctx, a)
	cancel()
	<-done
	return err
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	logLevel := new(slog.LevelVar)
	if err := setLogLevel(level, logLevel); err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})), nil
}

func setLogLevel(level string, logLevel *slog.LevelVar) error {
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		return fmt.Errorf("the log level must be one of (debug, info, warn, error) received %s", level)
	}
	return nil
}
