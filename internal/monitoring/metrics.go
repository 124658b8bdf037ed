// Package monitoring exposes Prometheus metrics and a runtime status snapshot.
package monitoring

import (
	"net/http"
	"time"

	"kitchenops/internal/inventory"
	"kitchenops/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SnapshotFunc returns the current item collection
type SnapshotFunc func() []models.InventoryItem

// inventoryCollector derives stock gauges from a snapshot at scrape time
type inventoryCollector struct {
	snapshot SnapshotFunc
	now      func() time.Time

	items     *prometheus.Desc
	lowStock  *prometheus.Desc
	wasteRisk *prometheus.Desc
	expired   *prometheus.Desc
}

func newInventoryCollector(snapshot SnapshotFunc, now func() time.Time) *inventoryCollector {
	return &inventoryCollector{
		snapshot:  snapshot,
		now:       now,
		items:     prometheus.NewDesc("kitchenops_inventory_items", "Number of tracked inventory items", []string{"category"}, nil),
		lowStock:  prometheus.NewDesc("kitchenops_inventory_low_stock_items", "Items at or below their reorder threshold", nil, nil),
		wasteRisk: prometheus.NewDesc("kitchenops_inventory_waste_risk_items", "Items expiring within the dashboard waste-risk window", nil, nil),
		expired:   prometheus.NewDesc("kitchenops_inventory_expired_items", "Items past their expiry date", nil, nil),
	}
}

func (c *inventoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.items
	ch <- c.lowStock
	ch <- c.wasteRisk
	ch <- c.expired
}

func (c *inventoryCollector) Collect(ch chan<- prometheus.Metric) {
	items := c.snapshot()
	counters := inventory.DashboardCounters(items, c.now())

	for _, tally := range inventory.CategoryTally(items) {
		ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(tally.Count), string(tally.Category))
	}
	ch <- prometheus.MustNewConstMetric(c.lowStock, prometheus.GaugeValue, float64(counters.LowStockCount))
	ch <- prometheus.MustNewConstMetric(c.wasteRisk, prometheus.GaugeValue, float64(counters.ExpiringSoonCount))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.GaugeValue, float64(counters.ExpiredCount))
}

// MetricsCollector handles metrics collection and reporting
type MetricsCollector struct {
	registry        *prometheus.Registry
	gatewayDuration *prometheus.HistogramVec
	gatewayRequests *prometheus.CounterVec
	monitor         *Monitor
}

// NewMetricsCollector creates a registry with inventory, gateway and runtime collectors
func NewMetricsCollector(snapshot SnapshotFunc, monitor *Monitor) *MetricsCollector {
	registry := prometheus.NewRegistry()

	gatewayDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kitchenops_gateway_request_duration_seconds",
			Help:    "Time taken by AI gateway calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"operation", "outcome"},
	)
	gatewayRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchenops_gateway_requests_total",
			Help: "AI gateway calls by outcome",
		},
		[]string{"operation", "outcome"},
	)

	registry.MustRegister(
		newInventoryCollector(snapshot, time.Now),
		gatewayDuration,
		gatewayRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsCollector{
		registry:        registry,
		gatewayDuration: gatewayDuration,
		gatewayRequests: gatewayRequests,
		monitor:         monitor,
	}
}

// ObserveGateway records one AI gateway call
func (m *MetricsCollector) ObserveGateway(operation, outcome string, duration time.Duration) {
	m.gatewayDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
	m.gatewayRequests.WithLabelValues(operation, outcome).Inc()
	if m.monitor != nil {
		m.monitor.RecordGatewayResult(operation, outcome, duration)
	}
}

// Registry returns the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
