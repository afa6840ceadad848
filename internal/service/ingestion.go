package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/datasource"
	"github.com/yourusername/hoops-edge/internal/fusion"
	"github.com/yourusername/hoops-edge/internal/lineup"
	"github.com/yourusername/hoops-edge/internal/logger"
	"github.com/yourusername/hoops-edge/internal/models"
	"github.com/yourusername/hoops-edge/internal/tracing"
	"golang.org/x/sync/errgroup"
)

const (
	keyPlayerCount = lineup.KeyPlayerCount
	starCount      = lineup.StarCount
)

// fallbackImpacts are the impact scores given to generic players when a team
// has no player data.
var fallbackImpacts = []float64{15, 13, 11, 9, 7, 5}

// Absences is everything fusion needs for one slate, plus source coverage.
type Absences struct {
	Inputs   fusion.Inputs
	Coverage lineup.Coverage
	Failed   map[string]error
}

// IngestionService collects absences from every configured source and
// normalizes player inputs at the boundary.
type IngestionService struct {
	sources   []datasource.AbsenceSource
	validator *DataValidator
	metrics   *IngestionMetrics
	logger    *logger.IngestionLogger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(sources []datasource.AbsenceSource, validator *DataValidator, log *logger.IngestionLogger) *IngestionService {
	if validator == nil {
		validator = NewDataValidator(nil)
	}
	if log == nil {
		log = logger.NewIngestionLogger(logrus.StandardLogger())
	}
	return &IngestionService{
		sources:   sources,
		validator: validator,
		metrics:   NewIngestionMetrics(),
		logger:    log,
	}
}

// Metrics returns the metrics of the last run
func (s *IngestionService) Metrics() *IngestionMetrics {
	return s.metrics
}

// Sources returns the configured sources
func (s *IngestionService) Sources() []datasource.AbsenceSource {
	return s.sources
}

// CollectAbsences fetches every enabled source concurrently. A failed source is
// logged and recorded but never aborts the run; coverage reflects which
// authoritative sources actually answered.
func (s *IngestionService) CollectAbsences(ctx context.Context, date time.Time) (*Absences, error) {
	s.metrics.Reset()

	type fetched struct {
		source datasource.AbsenceSource
		batch  *datasource.Batch
		err    error
	}
	results := make([]fetched, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		i, src := i, src
		if !src.IsEnabled() {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			fctx, end := tracing.StartSubsegment(gctx, "fetch-"+string(src.Kind()))
			tracing.AddAnnotation(fctx, "source", src.Name())
			batch, err := src.FetchAbsences(fctx, date)
			end(err)
			results[i] = fetched{source: src, batch: batch, err: err}
			if err == nil {
				s.logger.LogSourceFetched(src.Name(), string(src.Kind()), batch.Len(), batch.CacheHit, float64(time.Since(start).Milliseconds()))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("absence collection cancelled: %w", err)
	}

	out := &Absences{
		Inputs: fusion.Inputs{Date: date},
		Failed: make(map[string]error),
	}
	for _, r := range results {
		if r.source == nil {
			continue
		}
		if r.err != nil {
			s.metrics.RecordFailure()
			out.Failed[r.source.Name()] = r.err
			s.logger.LogSourceFailed(r.source.Name(), string(r.source.Kind()), r.err.Error())
			continue
		}
		s.metrics.RecordFetch(r.source.Name(), r.batch.Len(), r.batch.CacheHit)
		s.merge(out, r.source, r.batch)
	}

	s.metrics.Finish()
	return out, nil
}

func (s *IngestionService) merge(out *Absences, src datasource.AbsenceSource, batch *datasource.Batch) {
	if batch == nil {
		return
	}
	source := src.Name()
	switch src.Kind() {
	case models.SourceInactives:
		out.Coverage.InactivesAvailable = true
		out.Inputs.Inactives = append(out.Inputs.Inactives, s.validRecords(source, batch.Records)...)
	case models.SourceInjuryReport:
		out.Coverage.InjuryReportAvailable = true
		out.Inputs.InjuryReport = append(out.Inputs.InjuryReport, s.validRecords(source, batch.Records)...)
	case models.SourceNews:
		out.Inputs.News = append(out.Inputs.News, s.validRecords(source, batch.Records)...)
	case models.SourceKnownAbsence:
		for i := range batch.KnownAbsences {
			ka := batch.KnownAbsences[i]
			if errs := s.validator.ValidateKnownAbsence(&ka); len(errs) > 0 {
				s.metrics.RecordValidationError()
				s.logger.LogInvalidRecord(source, errs)
				continue
			}
			out.Inputs.KnownAbsences = append(out.Inputs.KnownAbsences, ka)
		}
	}
}

func (s *IngestionService) validRecords(source string, records []models.AbsenceRecord) []models.AbsenceRecord {
	out := make([]models.AbsenceRecord, 0, len(records))
	for i := range records {
		if errs := s.validator.ValidateAbsence(&records[i]); len(errs) > 0 {
			s.metrics.RecordValidationError()
			s.logger.LogInvalidRecord(source, errs)
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// PreparePlayers validates a team's player stats and ranks them. When no valid
// player remains, generic fallback players are returned and fallback is true.
func (s *IngestionService) PreparePlayers(team string, stats []models.PlayerStats) (players []models.PlayerImpact, fallback bool) {
	valid := make([]models.PlayerStats, 0, len(stats))
	for i := range stats {
		p := stats[i]
		if p.Team == "" {
			p.Team = team
		}
		if errs := s.validator.ValidatePlayer(&p); len(errs) > 0 {
			s.metrics.RecordValidationError()
			s.logger.LogInvalidRecord("players/"+team, errs)
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) == 0 {
		s.metrics.RecordFallback()
		s.logger.LogFallbackPlayers(team, len(fallbackImpacts))
		return FallbackPlayers(team), true
	}
	return BuildPlayerImpacts(valid), false
}

// BuildPlayerImpacts computes impact = minutes × points-per-minute, ranks
// players by impact (ties by name) and flags the top six as key players and
// the top two as stars.
func BuildPlayerImpacts(stats []models.PlayerStats) []models.PlayerImpact {
	out := make([]models.PlayerImpact, len(stats))
	for i, p := range stats {
		out[i] = models.PlayerImpact{
			PlayerStats: p,
			ImpactScore: p.MinutesPerGame * p.PointsPerMinute(),
		}
		if !p.HasMinutes {
			// no minutes means no rate; fall back to raw scoring
			out[i].ImpactScore = p.PointsPerGame
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ImpactScore != out[j].ImpactScore {
			return out[i].ImpactScore > out[j].ImpactScore
		}
		return out[i].Name < out[j].Name
	})

	for i := range out {
		out[i].ImpactRank = i + 1
		out[i].IsKeyPlayer = i < keyPlayerCount
		out[i].IsStar = i < starCount
	}
	return out
}

// FallbackPlayers returns six generic players for team with descending impact.
// The top two are stars.
func FallbackPlayers(team string) []models.PlayerImpact {
	key := strings.ToUpper(strings.TrimSpace(team))
	players := make([]models.PlayerImpact, len(fallbackImpacts))
	for i, impact := range fallbackImpacts {
		players[i] = models.PlayerImpact{
			PlayerStats: models.PlayerStats{
				Name:          fmt.Sprintf("%s Player %d", key, i+1),
				Team:          key,
				PointsPerGame: impact,
				IsFallback:    true,
			},
			ImpactScore: impact,
			ImpactRank:  i + 1,
			IsKeyPlayer: true,
			IsStar:      i < starCount,
		}
	}
	return players
}
