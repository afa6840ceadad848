package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionsPersisted logs a batch of predictions written to storage.
func (al *AuditLogger) LogPredictionsPersisted(runID string, slateDate time.Time, count int) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"slate_date": slateDate.Format("2006-01-02"),
		"count":      count,
		"timestamp":  time.Now().Unix(),
	}).Info("Predictions persisted")
}

// LogParameterOverride logs a scoring parameter changed from its default.
func (al *AuditLogger) LogParameterOverride(parameterName string, oldValue, newValue interface{}, source string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"source":         source,
	}).Info("Scoring parameter overridden")
}

// LogSecretsOverlay logs which configuration fields were taken from the secrets store.
func (al *AuditLogger) LogSecretsOverlay(secretID string, fields []string) {
	al.WithFields(logrus.Fields{
		"secret_id": secretID,
		"fields":    fields,
	}).Info("Configuration secrets applied")
}
