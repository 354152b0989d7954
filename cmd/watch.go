package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"threadwatch/core/config"
	"threadwatch/core/loader"
	"threadwatch/core/logger"
	"threadwatch/core/middleware/auth"
	"threadwatch/core/middleware/rayid"
	"threadwatch/feature/thread"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd runs reconciliations on an interval with an optional status server.
var watchCmd = &cobra.Command{
	Use:   "watch [url]",
	Short: "Run reconciliations on an interval",
	Long: `Repeatedly run reconciliations against the configured thread, once per
interval (SERVER_WATCH_INTERVAL_MINUTES, default 10). The orchestrator keeps
no state between activations other than the state file itself.

When the status server is enabled, a read-only HTTP surface exposes the last
run's outcome (/thread/status), the persisted state summary (/thread/state)
and the run archive (/thread/runs).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) == 1 {
		cfg.Thread.BaseURL = args[0]
	}
	if cfg.Thread.BaseURL == "" {
		return fmt.Errorf("no thread URL: set THREAD_BASE_URL or pass one as an argument")
	}

	// 2. Initialize Logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	// 3. Build the orchestrator and its sinks
	service := buildService(cfg, logg)

	// 4. Status server (optional)
	var app *fiber.App
	if cfg.Server.Enabled {
		app = fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		app.Use(rayid.New())
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		mgr := loader.NewManager()
		mgr.Register(thread.NewFeature(service, logg))
		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		go func() {
			logg.Info("Starting status server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Status server failed to start", zap.Error(err))
			}
		}()
	}

	interval := time.Duration(cfg.Server.WatchIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	logg.Info("Watch started",
		zap.String("thread", cfg.Thread.BaseURL),
		zap.Duration("interval", interval),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First activation runs immediately; a run in progress is never
	// interrupted by shutdown, only the loop between runs is.
	for {
		runScheduled(service, logg)

		select {
		case <-ticker.C:
		case <-stop:
			logg.Info("Shutting down watch...")
			if app != nil {
				_ = app.Shutdown()
			}
			return nil
		}
	}
}

func runScheduled(service *thread.Service, logg *zap.Logger) {
	result, err := service.Run(context.Background())
	if err != nil {
		logg.Error("scheduled run failed", zap.Error(err))
		return
	}
	if result.Metadata.Partial {
		logg.Warn("scheduled run completed with partial data",
			zap.Int("failed_pages", result.Metadata.FailedPages))
	}
}
