// Package performance provides performance tracking for ReWater operations.
package performance

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker // Active and completed markers by unique ID
	mu      sync.RWMutex
	started time.Time
	config  *TrackerConfig
	seq     uint64
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers int           `json:"maxMarkers"` // Maximum number of markers to retain
	Retention  time.Duration `json:"retention"`  // How long completed markers are kept
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers: 10000,
		Retention:  time.Hour,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	t.mu.Lock()
	t.seq++
	t.markers[fmt.Sprintf("%s_%d", operation, t.seq)] = marker
	t.mu.Unlock()

	return marker
}

// Cleanup removes old markers to prevent memory leaks
func (t *Tracker) Cleanup() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-t.config.Retention)
	for id, marker := range t.markers {
		if marker.isCompleted() && marker.endTime().Before(cutoff) {
			delete(t.markers, id)
			removed++
		}
	}

	if len(t.markers) > t.config.MaxMarkers {
		count := 0
		for id := range t.markers {
			if count > t.config.MaxMarkers/2 {
				delete(t.markers, id)
				removed++
			}
			count++
		}
	}
	return removed
}

// Stats summarizes the markers currently retained by the tracker.
type Stats struct {
	Uptime              string                    `json:"uptime"`
	TotalMarkers        int                       `json:"totalMarkers"`
	ActiveOperations    int                       `json:"activeOperations"`
	CompletedOperations int                       `json:"completedOperations"`
	FailedOperations    int                       `json:"failedOperations"`
	Operations          map[string]OperationStats `json:"operations"`
	MemoryUsageMB       uint64                    `json:"memoryUsageMB"`
}

// OperationStats aggregates completed markers for one operation name.
type OperationStats struct {
	Count      int     `json:"count"`
	Failures   int     `json:"failures"`
	AvgMillis  float64 `json:"avgMillis"`
	MaxMillis  float64 `json:"maxMillis"`
	totalNanos int64
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := Stats{
		Uptime:        time.Since(t.started).Round(time.Second).String(),
		TotalMarkers:  len(t.markers),
		Operations:    make(map[string]OperationStats),
		MemoryUsageMB: memStats.Alloc / (1024 * 1024),
	}

	for _, marker := range t.markers {
		snap := marker.snapshot()
		if !snap.Completed {
			stats.ActiveOperations++
			continue
		}
		stats.CompletedOperations++

		op := stats.Operations[snap.Operation]
		op.Count++
		if !snap.Success {
			stats.FailedOperations++
			op.Failures++
		}
		op.totalNanos += int64(snap.Duration)
		if ms := float64(snap.Duration) / float64(time.Millisecond); ms > op.MaxMillis {
			op.MaxMillis = ms
		}
		op.AvgMillis = float64(op.totalNanos) / float64(op.Count) / float64(time.Millisecond)
		stats.Operations[snap.Operation] = op
	}

	return stats
}
