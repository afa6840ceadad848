package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/hoops-edge/internal/database"
	applogger "github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/models"
	"github.com/yourusername/hoops-edge/internal/repository"
	"github.com/yourusername/hoops-edge/internal/service"
)

var (
	snapshotPath string
	persist      bool
	jsonOutput   bool
	topFactors   int
)

func init() {
	scoreCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Path to slate snapshot JSON (required)")
	scoreCmd.Flags().BoolVar(&persist, "persist", false, "Save scored games to the database")
	scoreCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result as JSON")
	scoreCmd.Flags().IntVar(&topFactors, "top-factors", 3, "Number of top factors to show per game")
	_ = scoreCmd.MarkFlagRequired("snapshot")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every game in a slate snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		validator := service.NewDataValidator(logger)
		slate, err := service.LoadSnapshot(snapshotPath, validator)
		if err != nil {
			return err
		}

		ingestion := service.NewIngestionService(nil, validator, applogger.NewIngestionLogger(logger))
		scorer, err := buildScorer(ingestion)
		if err != nil {
			return err
		}

		opts := []service.SlateOption{
			service.WithWorkers(cfg.Scoring.Workers),
			service.WithIngestion(ingestion),
		}
		if persist {
			db, err := database.Initialize(ctx, cfg, logger)
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
		result, err := slates.Run(ctx, slate, persist)
		if err != nil && result == nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(result); encErr != nil {
				return encErr
			}
		} else {
			printSlate(result)
		}
		return err
	},
}

func printSlate(result *service.SlateResult) {
	fmt.Printf("Slate %s  run %s\n", result.Date.Format(models.DateLayout), result.RunID)
	fmt.Printf("%-12s %-11s %-5s %7s %7s %6s %-7s %s\n",
		"GAME", "MATCHUP", "PICK", "EDGE", "MARGIN", "PROB", "CONF", "DATA")
	for _, g := range result.Games {
		fmt.Printf("%-12s %-11s %-5s %+7.2f %+7.1f %5.1f%% %-7s %s\n",
			g.GameID, g.Matchup(), g.PredictedWinner, g.EdgeScoreTotal, g.ProjectedMargin,
			g.PickProb*100, fmt.Sprintf("%s %d", g.ConfidenceLabel, g.ConfidencePct), g.DataConfidence)
		if topFactors > 0 {
			fmt.Printf("    %s\n", g.TopFactorsString(topFactors))
		}
		if g.Replacement.Active {
			fmt.Printf("    replacement: %v (edge %+.2f)\n", g.Replacement.Triggers, g.Replacement.Edge)
		}
	}
	for _, s := range result.Skipped {
		fmt.Printf("%-12s %-11s skipped: %s\n", s.GameID, s.Matchup, s.Reason)
	}
	fmt.Printf("%d scored, %d skipped, %d persisted in %s\n",
		len(result.Games), len(result.Skipped), result.Persisted, result.Duration.Round(time.Millisecond))
}
