package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/config"
	"github.com/yourusername/hoops-edge/internal/models"
)

// SourceType represents the transport of a data source
type SourceType string

const (
	// HTTPSourceType is a JSON feed fetched over HTTP
	HTTPSourceType SourceType = "http"
	// CSVSourceType is a local CSV file
	CSVSourceType SourceType = "csv"
)

var feedKinds = map[string]models.AbsenceSource{
	config.FeedKindInactives:    models.SourceInactives,
	config.FeedKindKnownAbsence: models.SourceKnownAbsence,
	config.FeedKindInjuryReport: models.SourceInjuryReport,
	config.FeedKindNews:         models.SourceNews,
}

// KindFor maps a configured feed kind to its fusion source.
func KindFor(kind string) (models.AbsenceSource, error) {
	src, ok := feedKinds[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrUnknownSource, kind)
	}
	return src, nil
}

// Factory creates AbsenceSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config config.DataSourcesConfig
}

// NewFactory creates a new data source factory
func NewFactory(cfg config.DataSourcesConfig, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Factory{logger: logger, config: cfg}
}

// HTTPClient builds the shared rate-limited client from the http section.
func (f *Factory) HTTPClient() *RateLimitedHTTPClient {
	httpCfg := DefaultHTTPClientConfig()
	if f.config.HTTP.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(f.config.HTTP.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = f.config.HTTP.MaxRetries
	if f.config.HTTP.RateLimit > 0 {
		httpCfg.RateLimit = f.config.HTTP.RateLimit
	}
	if f.config.HTTP.CircuitBreakerMax > 0 {
		httpCfg.CircuitBreakerMax = f.config.HTTP.CircuitBreakerMax
	}
	return NewRateLimitedHTTPClient(httpCfg, f.logger)
}

// NewSource creates a single AbsenceSource from its feed configuration
func (f *Factory) NewSource(cfg config.FeedConfig, httpClient *RateLimitedHTTPClient) (AbsenceSource, error) {
	kind, err := KindFor(cfg.Kind)
	if err != nil {
		return nil, err
	}

	switch SourceType(cfg.Type) {
	case HTTPSourceType:
		if httpClient == nil {
			return nil, fmt.Errorf("HTTP client is required for %s", cfg.Name)
		}
		if cfg.URL == "" {
			return nil, fmt.Errorf("url is required for %s", cfg.Name)
		}
		return NewFeedClient(httpClient, FeedClientConfig{
			Name:    cfg.Name,
			Kind:    kind,
			URL:     cfg.URL,
			APIKey:  cfg.APIKey,
			Origin:  cfg.Origin,
			Enabled: cfg.Enabled,
		}, f.logger), nil

	case CSVSourceType:
		if kind != models.SourceKnownAbsence {
			return nil, fmt.Errorf("csv source %s must be of kind %s", cfg.Name, config.FeedKindKnownAbsence)
		}
		return NewCSVKnownAbsenceSource(cfg.Name, cfg.Path, cfg.Enabled), nil

	default:
		return nil, fmt.Errorf("unknown data source type: %s", cfg.Type)
	}
}

// NewSources creates all enabled sources, wrapping HTTP feeds in a cache when
// cache_ttl_seconds is positive.
func (f *Factory) NewSources(httpClient *RateLimitedHTTPClient) ([]AbsenceSource, error) {
	var sources []AbsenceSource
	ttl := time.Duration(f.config.CacheTTLSeconds) * time.Second

	for _, srcCfg := range f.config.Sources {
		if !srcCfg.Enabled {
			f.logger.WithField("source", srcCfg.Name).Debug("Skipping disabled data source")
			continue
		}

		source, err := f.NewSource(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}
		if ttl > 0 && SourceType(srcCfg.Type) == HTTPSourceType {
			source = NewCachedSource(source, ttl)
		}

		sources = append(sources, source)
		f.logger.WithFields(logrus.Fields{
			"source": srcCfg.Name,
			"kind":   srcCfg.Kind,
			"type":   srcCfg.Type,
		}).Info("Created data source")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
