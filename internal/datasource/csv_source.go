package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/models"
)

// knownAbsenceColumns is the required CSV header, in order.
var knownAbsenceColumns = []string{"team", "player", "reason", "start_date", "end_date", "source"}

// CSVKnownAbsenceSource loads manually tracked absences from a CSV file.
// The file is re-read on every fetch so edits apply to the next run.
type CSVKnownAbsenceSource struct {
	name    string
	path    string
	enabled bool
}

// NewCSVKnownAbsenceSource creates a CSV-backed known absence source.
func NewCSVKnownAbsenceSource(name, path string, enabled bool) *CSVKnownAbsenceSource {
	return &CSVKnownAbsenceSource{name: name, path: path, enabled: enabled}
}

// Name returns the data source name
func (s *CSVKnownAbsenceSource) Name() string {
	return s.name
}

// Kind always returns KNOWN_ABSENCE
func (s *CSVKnownAbsenceSource) Kind() models.AbsenceSource {
	return models.SourceKnownAbsence
}

// IsEnabled returns whether the data source is enabled
func (s *CSVKnownAbsenceSource) IsEnabled() bool {
	return s.enabled
}

// FetchAbsences reads every row of the file. Date filtering happens during fusion.
// A missing file yields an empty batch.
func (s *CSVKnownAbsenceSource) FetchAbsences(ctx context.Context, date time.Time) (*Batch, error) {
	if !s.enabled {
		return nil, NewDataSourceError(s.name, ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &Batch{
		Source:    s.name,
		Kind:      models.SourceKnownAbsence,
		Date:      date,
		FetchedAt: time.Now().UTC(),
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return batch, nil
		}
		return nil, NewDataSourceError(s.name, ErrCodeUnknown, "failed to open known absences file", err)
	}
	defer f.Close()

	rows, err := ParseKnownAbsences(f)
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeInvalidData, s.path, err)
	}
	batch.KnownAbsences = rows
	metrics.RecordAbsenceRecords(s.name, len(rows))
	return batch, nil
}

// ParseKnownAbsences reads team,player,reason,start_date,end_date,source rows.
// Lines starting with '#' are comments; end_date may be blank.
func ParseKnownAbsences(r io.Reader) ([]models.KnownAbsence, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = len(knownAbsenceColumns)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range knownAbsenceColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	var out []models.KnownAbsence
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		ka, err := parseKnownAbsenceRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, ka)
	}
	return out, nil
}

func parseKnownAbsenceRow(row []string) (models.KnownAbsence, error) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	ka := models.KnownAbsence{
		Team:   strings.ToUpper(row[0]),
		Player: row[1],
		Reason: row[2],
		Source: row[5],
	}
	if ka.Team == "" || ka.Player == "" {
		return ka, errors.New("team and player are required")
	}

	start, err := time.Parse(models.DateLayout, row[3])
	if err != nil {
		return ka, fmt.Errorf("invalid start_date %q: %w", row[3], err)
	}
	ka.StartDate = start

	if row[4] != "" {
		end, err := time.Parse(models.DateLayout, row[4])
		if err != nil {
			return ka, fmt.Errorf("invalid end_date %q: %w", row[4], err)
		}
		if end.Before(start) {
			return ka, fmt.Errorf("end_date %s before start_date %s", row[4], row[3])
		}
		ka.EndDate = &end
	}
	return ka, nil
}
