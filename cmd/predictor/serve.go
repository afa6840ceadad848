package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/hoops-edge/internal/database"
	"github.com/yourusername/hoops-edge/internal/datasource"
	"github.com/yourusername/hoops-edge/internal/health"
	applogger "github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/repository"
	"github.com/yourusername/hoops-edge/internal/scheduler"
	"github.com/yourusername/hoops-edge/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled slate refresh with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func runServer(ctx context.Context) error {
	if cfg.Scheduler.SnapshotPath == "" {
		return fmt.Errorf("scheduler.snapshot_path is required to serve")
	}

	factory := datasource.NewFactory(cfg.DataSources, logger)
	httpClient := factory.HTTPClient()
	defer httpClient.Close()

	sources, err := factory.NewSources(httpClient)
	if err != nil {
		return err
	}

	validator := service.NewDataValidator(logger)
	ingestion := service.NewIngestionService(sources, validator, applogger.NewIngestionLogger(logger))
	scorer, err := buildScorer(ingestion)
	if err != nil {
		return err
	}

	opts := []service.SlateOption{
		service.WithWorkers(cfg.Scoring.Workers),
		service.WithIngestion(ingestion),
	}

	var db *database.DB
	if cfg.Scheduler.Persist {
		db, err = database.Initialize(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithRepository(repos.Prediction, auditLogger))
	}
	slates := service.NewSlateService(scorer, applogger.NewScoringLogger(logger), opts...)

	loader := func(ctx context.Context) (*service.Slate, error) {
		return service.LoadSnapshot(cfg.Scheduler.SnapshotPath, validator)
	}
	sched := scheduler.NewScheduler(slates, loader, logger)

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		Logger:      logger,
		Refresh:     sched,
	}
	if db != nil {
		healthCfg.DB = db
	}
	if cfg.Metrics.Enabled {
		healthCfg.MetricsPath = cfg.Metrics.Path
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleSlateRefresh(cfg.Scheduler.SlateRefresh, cfg.Scheduler.Persist); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		logger.WithField("next_run", sched.GetNextRun()).Info("Slate refresh scheduled")
	} else {
		logger.Warn("Scheduler disabled, running a single refresh")
		sched.RunOnce(ctx, cfg.Scheduler.Persist)
	}

	healthServer.SetReady(true)
	logger.WithField("sources", len(sources)).Info("Predictor service started")

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	healthServer.SetReady(false)

	if err := sched.Stop(); err != nil {
		logger.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	return healthServer.Shutdown()
}
