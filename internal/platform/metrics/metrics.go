package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the dashboard API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Requests           *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	UnresolvedFeatures prometheus.Counter
	DatasetRecords     prometheus.Gauge
	FeatureFetches     *prometheus.CounterVec
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statedash_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statedash_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		UnresolvedFeatures: factory.NewCounter(prometheus.CounterOpts{
			Name: "statedash_map_unresolved_features_total",
			Help: "Total number of map features whose state key could not be resolved",
		}),
		DatasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "statedash_dataset_records",
			Help: "Number of records in the loaded dataset",
		}),
		FeatureFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statedash_feature_fetches_total",
			Help: "Geographic feature fetches by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// AddUnresolved counts features rendered with the neutral color for lack of a key.
func (m *Metrics) AddUnresolved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UnresolvedFeatures.Add(float64(n))
}

func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil {
		return
	}
	m.DatasetRecords.Set(float64(n))
}

// IncFeatureFetch counts a feature source lookup outcome.
func (m *Metrics) IncFeatureFetch(result string) {
	if m == nil {
		return
	}
	m.FeatureFetches.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
