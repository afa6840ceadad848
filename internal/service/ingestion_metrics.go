package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one absence collection run
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	SourcesFetched   int
	SourcesFailed    int
	CacheHits        int
	RecordsBySource  map[string]int
	ValidationErrors int
	FallbackTeams    int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime:       time.Now(),
		RecordsBySource: make(map[string]int),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.SourcesFetched = 0
	m.SourcesFailed = 0
	m.CacheHits = 0
	m.RecordsBySource = make(map[string]int)
	m.ValidationErrors = 0
	m.FallbackTeams = 0
}

// RecordFetch records a successful source fetch
func (m *IngestionMetrics) RecordFetch(source string, records int, cacheHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
	m.RecordsBySource[source] += records
	if cacheHit {
		m.CacheHits++
	}
}

// RecordFailure increments the failed source count
func (m *IngestionMetrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// RecordFallback increments the count of teams scored with fallback players
func (m *IngestionMetrics) RecordFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackTeams++
}

// Finish stamps the run duration
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// TotalRecords returns the record count across sources
func (m *IngestionMetrics) TotalRecords() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.RecordsBySource {
		total += n
	}
	return total
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.RecordsBySource))
	for name := range m.RecordsBySource {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, m.RecordsBySource[name]))
	}

	return fmt.Sprintf(
		"IngestionMetrics{Fetched=%d, Failed=%d, CacheHits=%d, Records=[%s], ValidationErrors=%d, FallbackTeams=%d, Duration=%v}",
		m.SourcesFetched,
		m.SourcesFailed,
		m.CacheHits,
		strings.Join(parts, " "),
		m.ValidationErrors,
		m.FallbackTeams,
		m.Duration,
	)
}
