package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pagesentry/pagesentry/internal/comparator"
	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/datastore"
	"github.com/pagesentry/pagesentry/internal/fetcher"
	"github.com/pagesentry/pagesentry/internal/limiter"
	"github.com/pagesentry/pagesentry/internal/logger"
	"github.com/pagesentry/pagesentry/internal/monitor"
	"github.com/pagesentry/pagesentry/internal/notifier"
	"github.com/pagesentry/pagesentry/internal/urlhandler"
)

func main() {
	fmt.Println("PageSentry starting...")

	flags := ParseFlags()

	log.Println("[INFO] Main: Attempting to load global configuration...")
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}
	if gCfg == nil {
		log.Fatalf("[FATAL] Main: Loaded configuration is nil, though no error was reported. This should not happen.")
	}
	log.Println("[INFO] Main: Global configuration loaded successfully.")

	// The log-level flag must land before the logger is built.
	if flags.LogLevel != "" {
		gCfg.LogConfig.LogLevel = flags.LogLevel
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}
	zLogger.Info().Msg("Logger initialized successfully.")

	// --mode flag takes precedence over the config file.
	if flags.Mode != "" {
		gCfg.Mode = flags.Mode
		zLogger.Info().Str("mode", gCfg.Mode).Msg("Mode overridden by command line flag.")
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}
	zLogger.Info().Msg("Configuration validated successfully.")

	discordNotifier := notifier.NewDiscordNotifier(zLogger, &http.Client{Timeout: 20 * time.Second})
	notificationHelper := notifier.NewNotificationHelper(discordNotifier, gCfg.NotificationConfig, zLogger)

	snapshotStore, err := datastore.NewParquetSnapshotStore(&gCfg.StorageConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize snapshot store")
	}

	checkLogStore, err := datastore.NewCheckLogStore(gCfg.StorageConfig.SQLiteDBPath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize check log store")
	}
	defer func() {
		if closeErr := checkLogStore.Close(); closeErr != nil {
			zLogger.Error().Err(closeErr).Msg("Failed to close check log store")
		}
	}()

	contentComparator, err := comparator.NewContentComparator(zLogger, &gCfg.ComparatorConfig)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize content comparator")
	}

	checker := monitor.NewTargetChecker(
		&gCfg.MonitorConfig,
		snapshotStore,
		checkLogStore,
		fetcher.NewPageFetcher(&gCfg.FetcherConfig, zLogger),
		monitor.NewContentProcessor(fetcher.NewTextExtractor(zLogger), zLogger),
		contentComparator,
		monitor.NewDiffReportWriter(gCfg.StorageConfig.DiffReportDir, zLogger),
		notificationHelper,
		zLogger,
	)

	monitoringService := monitor.NewMonitoringService(
		&gCfg.MonitorConfig,
		checker,
		checkLogStore,
		notificationHelper,
		zLogger,
	)

	// Targets come from the -targets flag, the configured targets file, or
	// the configured URL list, in that order.
	targetsFile := flags.TargetsFile
	if targetsFile == "" && gCfg.MonitorConfig.TargetsFile != "" {
		if _, statErr := os.Stat(gCfg.MonitorConfig.TargetsFile); statErr == nil {
			targetsFile = gCfg.MonitorConfig.TargetsFile
		} else {
			zLogger.Debug().
				Str("file", gCfg.MonitorConfig.TargetsFile).
				Msg("Configured targets file not found, falling back to initial_monitor_urls")
		}
	}

	targetManager := urlhandler.NewTargetManager(zLogger)
	targets, targetSource, err := targetManager.LoadTargets(targetsFile, gCfg.MonitorConfig.InitialMonitorURLs)
	if err != nil {
		zLogger.Fatal().Err(err).Str("source", targetSource).Msg("Failed to load monitor targets")
	}
	monitoringService.AddTargets(targets)
	zLogger.Info().Int("count", len(targets)).Str("source", targetSource).Msg("Monitor targets loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if gCfg.Mode == "automated" {
		runAutomated(ctx, gCfg, monitoringService, zLogger)
	} else {
		runOnetime(ctx, monitoringService, zLogger)
	}

	if ctx.Err() != nil {
		zLogger.Info().Msg("PageSentry shutting down after interrupt.")
	} else {
		zLogger.Info().Msg("PageSentry finished.")
	}
}

// runAutomated runs scheduled monitoring until the cycle budget is exhausted
// or an interrupt arrives. The resource limiter only guards this long-running
// mode; a onetime run is over before it could usefully react.
func runAutomated(ctx context.Context, gCfg *config.GlobalConfig, monitoringService *monitor.MonitoringService, zLogger zerolog.Logger) {
	if !gCfg.MonitorConfig.Enabled {
		zLogger.Warn().Msg("Monitoring is disabled in the configuration; nothing to run in automated mode.")
		return
	}

	resourceLimiter := limiter.NewResourceLimiter(gCfg.ResourceLimiterConfig, zLogger)
	resourceLimiter.SetShutdownCallback(monitoringService.Stop)
	resourceLimiter.Start()
	defer resourceLimiter.Stop()

	if err := monitoringService.Start(); err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to start monitoring service")
	}
	zLogger.Info().
		Int("check_interval_seconds", gCfg.MonitorConfig.CheckIntervalSeconds).
		Int("max_cycles", gCfg.MonitorConfig.MaxCycles).
		Msg("Running in automated mode...")

	select {
	case <-ctx.Done():
		zLogger.Info().Msg("Received interrupt signal, initiating graceful shutdown...")
		monitoringService.Stop()
	case <-monitoringService.Done():
		zLogger.Info().Msg("Monitoring finished after the configured cycle count.")
	}
}

// runOnetime executes a single monitoring cycle and exits.
func runOnetime(ctx context.Context, monitoringService *monitor.MonitoringService, zLogger zerolog.Logger) {
	zLogger.Info().Msg("Running in onetime mode...")

	summary := monitoringService.RunCycle(ctx)

	zLogger.Info().
		Str("cycle_id", summary.CycleID).
		Int("checked", summary.CheckedCount).
		Int("changed", len(summary.ChangedURLs)).
		Int("failed", len(summary.FailedURLs)).
		Msg("Onetime cycle completed")
	if summary.Interrupted {
		zLogger.Warn().Msg("Onetime cycle was interrupted before all targets were checked.")
	}
}
