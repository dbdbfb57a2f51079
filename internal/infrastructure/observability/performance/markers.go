package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"` // e.g. "dashboard_report", "post_login_request"
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Completed bool           `json:"completed"`

	mu sync.Mutex
}

// Complete marks the operation as finished and records its duration
func (m *Marker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Completed {
		return
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.mu.Lock()
	m.Success = success
	m.mu.Unlock()
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	m.Error = err.Error()
	m.Success = false
	m.mu.Unlock()
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	m.mu.Lock()
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
	m.mu.Unlock()
}

// Elapsed returns the final duration once completed, or the running time.
func (m *Marker) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Completed {
		return m.Duration
	}
	return time.Since(m.StartTime)
}

type markerSnapshot struct {
	Operation string
	Duration  time.Duration
	Success   bool
	Completed bool
}

func (m *Marker) snapshot() markerSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return markerSnapshot{
		Operation: m.Operation,
		Duration:  m.Duration,
		Success:   m.Success,
		Completed: m.Completed,
	}
}

func (m *Marker) isCompleted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Completed
}

func (m *Marker) endTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.EndTime
}
