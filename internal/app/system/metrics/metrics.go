// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the console.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamHealthy  prometheus.Gauge
	pageRenders      *prometheus.CounterVec
	rebinDuration    prometheus.Histogram
	rebinSamples     prometheus.Histogram
}

var (
	once sync.Once
	inst *Metrics
)

// New returns the process-wide metrics collector. Collectors are
// registered on the default registry exactly once.
func New() *Metrics {
	once.Do(func() {
		inst = &Metrics{
			upstreamRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "strataroute_console_upstream_requests_total",
					Help: "Total management API requests by resource and outcome",
				},
				[]string{"resource", "outcome"},
			),
			upstreamDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "strataroute_console_upstream_request_duration_seconds",
					Help:    "Management API request duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"resource"},
			),
			upstreamHealthy: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "strataroute_console_upstream_healthy",
					Help: "Upstream proxy health status (1 = healthy, 0 = unhealthy)",
				},
			),
			pageRenders: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "strataroute_console_page_renders_total",
					Help: "Total page renders by feature",
				},
				[]string{"feature"},
			),
			rebinDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "strataroute_console_rebin_duration_seconds",
					Help:    "Time spent redistributing usage buckets into display bins",
					Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
				},
			),
			rebinSamples: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "strataroute_console_rebin_samples",
					Help:    "Number of raw buckets per rebin pass",
					Buckets: prometheus.ExponentialBuckets(1, 4, 8),
				},
			),
		}
	})
	return inst
}

// ObserveUpstream records one management API call.
func (m *Metrics) ObserveUpstream(resource, outcome string, d time.Duration) {
	m.upstreamRequests.WithLabelValues(resource, outcome).Inc()
	m.upstreamDuration.WithLabelValues(resource).Observe(d.Seconds())
}

// SetUpstreamHealthy records the result of the latest upstream ping.
func (m *Metrics) SetUpstreamHealthy(ok bool) {
	if ok {
		m.upstreamHealthy.Set(1)
	} else {
		m.upstreamHealthy.Set(0)
	}
}

// PageRendered counts one full page render for a feature.
func (m *Metrics) PageRendered(feature string) {
	m.pageRenders.WithLabelValues(feature).Inc()
}

// ObserveRebin records one rebin pass over sampleCount raw buckets.
func (m *Metrics) ObserveRebin(sampleCount int, d time.Duration) {
	m.rebinDuration.Observe(d.Seconds())
	m.rebinSamples.Observe(float64(sampleCount))
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
