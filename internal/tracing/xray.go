// Package tracing provides AWS X-Ray tracing for slate refreshes.
package tracing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aws/aws-xray-sdk-go/strategy/sampling"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	SamplingRate   float64
	DaemonAddr     string
}

// EndFunc closes a segment, recording err when non-nil.
type EndFunc func(err error)

var enabled atomic.Bool

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	entry := l.logger.WithField("component", "xray")
	switch level {
	case xraylog.LogLevelDebug:
		entry.Debug(msg.String())
	case xraylog.LogLevelInfo:
		entry.Info(msg.String())
	case xraylog.LogLevelWarn:
		entry.Warn(msg.String())
	case xraylog.LogLevelError:
		entry.Error(msg.String())
	}
}

// Initialize configures AWS X-Ray. When tracing is disabled every helper in
// this package is a no-op.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		enabled.Store(false)
		return nil
	}

	rules := fmt.Sprintf(`{"version": 2, "default": {"fixed_target": 1, "rate": %g}, "rules": []}`, cfg.SamplingRate)
	strategy, err := sampling.NewLocalizedStrategyFromJSONBytes([]byte(rules))
	if err != nil {
		return fmt.Errorf("invalid sampling rate %g: %w", cfg.SamplingRate, err)
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})
	if err := xray.Configure(xray.Config{
		DaemonAddr:       cfg.DaemonAddr,
		ServiceVersion:   cfg.ServiceVersion,
		SamplingStrategy: strategy,
	}); err != nil {
		return fmt.Errorf("failed to configure X-Ray: %w", err)
	}
	enabled.Store(true)

	logger.WithFields(logrus.Fields{
		"daemon_addr":   cfg.DaemonAddr,
		"sampling_rate": cfg.SamplingRate,
		"service_name":  cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Enabled reports whether tracing was initialized.
func Enabled() bool {
	return enabled.Load()
}

// StartSegment starts a new X-Ray segment.
func StartSegment(ctx context.Context, name string) (context.Context, EndFunc) {
	if !Enabled() {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSegment(ctx, name)
	return ctx, seg.Close
}

// StartSubsegment starts a subsegment under the segment in ctx. Without a
// parent segment it does nothing.
func StartSubsegment(ctx context.Context, name string) (context.Context, EndFunc) {
	if !Enabled() || xray.GetSegment(ctx) == nil {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSubsegment(ctx, name)
	return ctx, seg.Close
}

// AddAnnotation adds an indexed annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if !Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddMetadata adds metadata to the current segment.
func AddMetadata(ctx context.Context, key string, value interface{}) {
	if !Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddMetadata(key, value)
	}
}
