package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/hoops-edge/internal/datasource"
	"github.com/yourusername/hoops-edge/internal/fusion"
	applogger "github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/models"
	"github.com/yourusername/hoops-edge/internal/service"
)

var absencesDate string

func init() {
	absencesCmd.Flags().StringVarP(&absencesDate, "date", "d", "", "Slate date (YYYY-MM-DD, default today UTC)")
}

var absencesCmd = &cobra.Command{
	Use:   "absences",
	Short: "Fetch absences from every enabled source and print the fused table",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC().Truncate(24 * time.Hour)
		if absencesDate != "" {
			d, err := time.Parse(models.DateLayout, absencesDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", absencesDate, err)
			}
			date = d
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		factory := datasource.NewFactory(cfg.DataSources, logger)
		httpClient := factory.HTTPClient()
		defer httpClient.Close()

		sources, err := factory.NewSources(httpClient)
		if err != nil {
			return err
		}
		ingestion := service.NewIngestionService(sources, service.NewDataValidator(logger), applogger.NewIngestionLogger(logger))
		absences, err := ingestion.CollectAbsences(ctx, date)
		if err != nil {
			return err
		}

		table, report := fusion.Fuse(absences.Inputs)
		fmt.Printf("Absences for %s (%s)\n", date.Format(models.DateLayout), report.String())
		for _, r := range table.Records() {
			fmt.Printf("%-4s %-28s %-12s %-14s %s\n", r.Team, r.Player, r.CanonicalStatus, r.Source, r.RawReason)
		}
		failed := make([]string, 0, len(absences.Failed))
		for name := range absences.Failed {
			failed = append(failed, name)
		}
		sort.Strings(failed)
		for _, name := range failed {
			fmt.Printf("source %s failed: %v\n", name, absences.Failed[name])
		}
		fmt.Printf("coverage: injury_report=%t inactives=%t\n",
			absences.Coverage.InjuryReportAvailable, absences.Coverage.InactivesAvailable)
		return nil
	},
}
