package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/availability"
	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/models"
)

const (
	dataSourceDisabledMsg = "data source is disabled"
	apiKeyHeader          = "X-API-Key"
	maxFeedBodyBytes      = 8 << 20
)

// injuryReasonPrefixes are category labels the league report puts in front of
// the actual reason.
var injuryReasonPrefixes = []string{
	"injury/illness - ",
	"injury/illness -",
	"injury/illness: ",
}

// FeedResponse is the JSON envelope served by absence feeds.
type FeedResponse struct {
	Date    string      `json:"date"`
	Updated string      `json:"updated_at"`
	Entries []FeedEntry `json:"entries"`
}

// FeedEntry is one absence row as published by a feed.
type FeedEntry struct {
	Team      string `json:"team"`
	Player    string `json:"player"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	Publisher string `json:"publisher,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// FeedClient implements AbsenceSource for a JSON HTTP feed.
type FeedClient struct {
	httpClient *RateLimitedHTTPClient
	name       string
	kind       models.AbsenceSource
	baseURL    string
	apiKey     string
	origin     string
	enabled    bool
	logger     *logrus.Entry
}

// FeedClientConfig configures one feed client.
type FeedClientConfig struct {
	Name    string
	Kind    models.AbsenceSource
	URL     string
	APIKey  string
	Origin  string
	Enabled bool
}

// NewFeedClient creates a feed client.
func NewFeedClient(httpClient *RateLimitedHTTPClient, cfg FeedClientConfig, logger *logrus.Logger) *FeedClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &FeedClient{
		httpClient: httpClient,
		name:       cfg.Name,
		kind:       cfg.Kind,
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		origin:     cfg.Origin,
		enabled:    cfg.Enabled,
		logger:     logger.WithFields(logrus.Fields{"component": "feed", "source": cfg.Name}),
	}
}

// Name returns the data source name
func (c *FeedClient) Name() string {
	return c.name
}

// Kind returns the fusion input this feed populates
func (c *FeedClient) Kind() models.AbsenceSource {
	return c.kind
}

// IsEnabled returns whether the data source is enabled
func (c *FeedClient) IsEnabled() bool {
	return c.enabled
}

// FetchAbsences retrieves and parses the feed for date.
func (c *FeedClient) FetchAbsences(ctx context.Context, date time.Time) (*Batch, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.name, ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}

	start := time.Now()
	body, err := c.get(ctx, date)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordFeedRequest(c.name, ErrorCode(err), elapsed)
		return nil, err
	}
	metrics.RecordFeedRequest(c.name, "success", elapsed)

	var payload FeedResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, NewDataSourceError(c.name, ErrCodeInvalidData, "failed to decode feed", err)
	}

	batch, err := c.toBatch(payload, date)
	if err != nil {
		return nil, err
	}
	metrics.RecordAbsenceRecords(c.name, batch.Len())
	return batch, nil
}

func (c *FeedClient) get(ctx context.Context, date time.Time) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, NewDataSourceError(c.name, ErrCodeInvalidData, "invalid feed url", err)
	}
	q := u.Query()
	q.Set("date", date.Format(models.DateLayout))
	u.RawQuery = q.Encode()

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers[apiKeyHeader] = c.apiKey
	}

	resp, err := c.httpClient.Get(ctx, u.String(), headers)
	if err != nil {
		return nil, NewDataSourceError(c.name, ErrCodeNetworkError, "feed request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(c.name, ErrCodeAuthenticationFailed, resp.Status, ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(c.name, ErrCodeNotFound, resp.Status, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(c.name, ErrCodeRateLimitExceeded, resp.Status, ErrRateLimitExceeded)
	case resp.StatusCode >= 500:
		return nil, NewDataSourceError(c.name, ErrCodeServerError, resp.Status, ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return nil, NewDataSourceError(c.name, ErrCodeUnknown, resp.Status, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, NewDataSourceError(c.name, ErrCodeNetworkError, "failed to read feed body", err)
	}
	return body, nil
}

func (c *FeedClient) toBatch(payload FeedResponse, date time.Time) (*Batch, error) {
	batch := &Batch{
		Source:    c.name,
		Kind:      c.kind,
		Date:      date,
		FetchedAt: time.Now().UTC(),
	}

	for i, e := range payload.Entries {
		if strings.TrimSpace(e.Team) == "" || strings.TrimSpace(e.Player) == "" {
			c.logger.WithField("index", i).Warn("Skipping feed entry without team or player")
			continue
		}

		if c.kind == models.SourceKnownAbsence {
			ka, err := c.toKnownAbsence(e)
			if err != nil {
				return nil, err
			}
			batch.KnownAbsences = append(batch.KnownAbsences, ka)
			continue
		}

		batch.Records = append(batch.Records, c.toRecord(e))
	}
	return batch, nil
}

func (c *FeedClient) toRecord(e FeedEntry) models.AbsenceRecord {
	rec := models.AbsenceRecord{
		Team:      strings.TrimSpace(e.Team),
		Player:    strings.TrimSpace(e.Player),
		RawStatus: strings.TrimSpace(e.Status),
		RawReason: CleanReason(e.Reason),
		Source:    c.kind,
	}
	switch c.kind {
	case models.SourceNews:
		rec.Origin = e.Publisher
		if rec.Origin == "" {
			rec.Origin = c.origin
		}
		// fusion assigns news statuses itself
	case models.SourceInactives:
		rec.CanonicalStatus = models.StatusOut
	default:
		rec = availability.NormalizeRecord(rec)
	}
	return rec
}

func (c *FeedClient) toKnownAbsence(e FeedEntry) (models.KnownAbsence, error) {
	ka := models.KnownAbsence{
		Team:   strings.TrimSpace(e.Team),
		Player: strings.TrimSpace(e.Player),
		Reason: CleanReason(e.Reason),
		Source: c.origin,
	}
	start, err := time.Parse(models.DateLayout, e.StartDate)
	if err != nil {
		return ka, NewDataSourceError(c.name, ErrCodeInvalidData, fmt.Sprintf("bad start_date for %s", ka.Player), err)
	}
	ka.StartDate = start
	if e.EndDate != "" {
		end, err := time.Parse(models.DateLayout, e.EndDate)
		if err != nil {
			return ka, NewDataSourceError(c.name, ErrCodeInvalidData, fmt.Sprintf("bad end_date for %s", ka.Player), err)
		}
		ka.EndDate = &end
	}
	return ka, nil
}

// CleanReason trims a raw reason and drops report category prefixes such as
// "Injury/Illness - ".
func CleanReason(reason string) string {
	r := strings.TrimSpace(reason)
	lower := strings.ToLower(r)
	for _, p := range injuryReasonPrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(r[len(p):])
		}
	}
	return r
}
