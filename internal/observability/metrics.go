package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weatherboard"

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors for the server.
type Metrics struct {
	// Top-K reads.
	TopKQueries  *prometheus.CounterVec   // labels: field, order, outcome={success,invalid,error}
	TopKDuration *prometheus.HistogramVec // labels: field

	// Dashboard reads.
	DashboardQueries *prometheus.CounterVec // labels: op, outcome={success,error}

	// MQTT ingest.
	IngestMessages *prometheus.CounterVec // labels: outcome={success,invalid,error}
	MQTTConnected  prometheus.Gauge

	HTTPRequests *prometheus.CounterVec // labels: method, status

	gatherer prometheus.Gatherer
}

func newCollectors() *Metrics {
	return &Metrics{
		TopKQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topk_queries_total",
			Help:      "Top-K weather queries by field, order and outcome.",
		}, []string{"field", "order", "outcome"}),
		TopKDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "topk_query_duration_seconds",
			Help:      "Duration of top-K store reads in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}, []string{"field"}),
		DashboardQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_queries_total",
			Help:      "Dashboard reads by operation and outcome.",
		}, []string{"op", "outcome"}),
		IngestMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_messages_total",
			Help:      "Weather sample messages received over MQTT by outcome.",
		}, []string{"outcome"}),
		MQTTConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mqtt_connected",
			Help:      "1 while the MQTT subscriber is connected, 0 otherwise.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TopKQueries,
		m.TopKDuration,
		m.DashboardQueries,
		m.IngestMessages,
		m.MQTTConnected,
		m.HTTPRequests,
	}
}

// NewMetrics creates all metrics and registers them with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newCollectors()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting registers the metrics on a fresh registry so tests can
// build as many instances as they like.
func NewMetricsForTesting() *Metrics {
	m := newCollectors()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// Handler serves the registry the metrics were registered with.
func (m *Metrics) Handler() http.Handler {
	if m.gatherer == prometheus.DefaultGatherer {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
