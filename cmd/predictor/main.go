// Package main provides the pregame predictor CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hoops-edge/internal/calibration"
	"github.com/yourusername/hoops-edge/internal/config"
	applogger "github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/scoring"
	"github.com/yourusername/hoops-edge/internal/service"
	"github.com/yourusername/hoops-edge/internal/star"
	"github.com/yourusername/hoops-edge/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile  string
	logger      *logrus.Logger
	auditLogger *applogger.AuditLogger
	cfg         *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default $HOOPS_EDGE_CONFIG_PATH or config/config.yaml)")
}

var rootCmd = &cobra.Command{
	Use:           "predictor",
	Short:         "Pregame NBA predictor",
	Long:          `Scores NBA games from team baselines, player stats and fused absence reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("predictor %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(scoreCmd, serveCmd, validateWeightsCmd, absencesCmd, versionCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(config.ResolvePath(configFile))
	if err != nil {
		return err
	}

	logger = applogger.NewLogger(cfg.App.LogLevel)
	auditLogger = applogger.NewAuditLogger(logger)

	if cfg.SecretsEnabled() {
		secretsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		fields, err := config.LoadSecretsFromAWS(secretsCtx, cfg)
		if err != nil {
			return err
		}
		auditLogger.LogSecretsOverlay(cfg.Secrets.SecretID, fields)
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}

	metrics.InitRegistry()

	if err := tracing.Initialize(tracing.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Enabled:        cfg.Tracing.Enabled,
		SamplingRate:   cfg.Tracing.SamplingRate,
		DaemonAddr:     cfg.Tracing.DaemonAddr,
	}, logger); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Debug("Configuration loaded")
	return nil
}

// buildScorer wires the scoring pipeline from configuration, auditing every
// parameter that differs from its default.
func buildScorer(ingestion *service.IngestionService) (*service.GameScorer, error) {
	weights, err := scoring.NewWeights(cfg.Scoring.Weights)
	if err != nil {
		return nil, err
	}
	defaults := scoring.DefaultWeights()
	for _, name := range scoring.FactorNames() {
		if weights[name] != defaults[name] {
			auditLogger.LogParameterOverride("weight."+name, defaults[name], weights[name], "config")
		}
	}

	scoringLogger := applogger.NewScoringLogger(logger)
	engine, err := scoring.NewEngine(weights, scoringLogger)
	if err != nil {
		return nil, err
	}

	starParams := star.DefaultParams()
	d := cfg.Scoring.Dampening
	overrideFloat("dampening.recent", &starParams.Recent, d.Recent)
	overrideFloat("dampening.stale", &starParams.Stale, d.Stale)
	overrideFloat("dampening.default", &starParams.Default, d.Default)
	if d.SmallSampleGames > 0 && d.SmallSampleGames != starParams.SmallSampleGames {
		auditLogger.LogParameterOverride("dampening.small_sample_games", starParams.SmallSampleGames, d.SmallSampleGames, "config")
		starParams.SmallSampleGames = d.SmallSampleGames
	}

	calParams := calibration.DefaultParams()
	overrideFloat("tie_band", &calParams.TieBand, cfg.Scoring.TieBand)

	return service.NewGameScorer(
		engine,
		star.NewModel(starParams),
		calibration.New(calParams),
		ingestion,
		scoringLogger,
	), nil
}

func overrideFloat(name string, field *float64, value float64) {
	if value <= 0 || value == *field {
		return
	}
	auditLogger.LogParameterOverride(name, *field, value, "config")
	*field = value
}

var validateWeightsCmd = &cobra.Command{
	Use:   "validate-weights",
	Short: "Validate the configured factor weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		weights, err := scoring.NewWeights(cfg.Scoring.Weights)
		if err != nil {
			return err
		}

		fmt.Printf("Factor weights OK (sum %d)\n", weights.Sum())
		for _, name := range scoring.FactorNames() {
			fmt.Printf("  %-22s %3d\n", scoring.DisplayName(name), weights[name])
		}
		if diff := weights.Diff(); len(diff) > 0 {
			fmt.Println("Overrides:")
			for _, d := range diff {
				fmt.Printf("  %s\n", d)
			}
		}
		return nil
	},
}
