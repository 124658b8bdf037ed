package monitoring

import (
	"sync"
	"time"
)

// Monitor keeps the latest runtime values reported on the status endpoint
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns a copy of all current metrics plus uptime
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// RecordGatewayResult records the last outcome of an AI gateway operation
func (m *Monitor) RecordGatewayResult(operation, outcome string, duration time.Duration) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	prefix := "gateway_" + operation + "_"
	m.metrics[prefix+"last_outcome"] = outcome
	m.metrics[prefix+"last_duration_ms"] = duration.Milliseconds()
	m.metrics[prefix+"last_called"] = time.Now().Format(time.RFC3339)
}
