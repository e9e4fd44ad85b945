package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	"github.com/atsushifx/aglabo-error-core/internal/report"
)

// Prometheus collectors are registered once on the default registry, so
// constructing Metrics repeatedly (as tests do) stays safe.
var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aglareport_active_requests",
		Help: "Number of HTTP requests currently being served.",
	})
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aglareport_requests_total",
		Help: "Total number of HTTP requests served.",
	})
	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aglareport_records_total",
		Help: "Total number of error records read, by severity.",
	}, []string{"severity"})
	parseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aglareport_parse_failures_total",
		Help: "Total number of input lines rejected by the parser.",
	})
)

// unrankedLabel is the severity label for records without an admitted severity.
const unrankedLabel = "other"

// Metrics tracks stream and request metrics and serves them in Prometheus
// exposition format.
type Metrics struct {
	handler http.Handler
}

// NewMetrics creates a Metrics instance backed by the default Prometheus
// registry, which also exports the standard Go runtime collectors.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests records the start of an in-flight HTTP request.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
	requestsTotal.Inc()
}

// DecrementActiveRequests records the end of an in-flight HTTP request.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// CountRecord records one parsed record under its severity label.
func (m *Metrics) CountRecord(level aglaerror.Severity) {
	label := unrankedLabel
	if aglaerror.IsValidSeverity(level) {
		label = level.String()
	}
	recordsTotal.WithLabelValues(label).Inc()
}

// CountParseFailure records one rejected input line.
func (m *Metrics) CountParseFailure() {
	parseFailuresTotal.Inc()
}

// WritePrometheus writes all registered metrics in Prometheus format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// MetricsSink adapts Metrics to the report.Sink interface so the read loop
// can feed the counters directly.
type MetricsSink struct {
	Metrics *Metrics
}

// Verify that MetricsSink implements report.Sink.
var _ report.Sink = MetricsSink{}

// HandleRecord counts the record under its severity label.
func (s MetricsSink) HandleRecord(rec report.Record) error {
	s.Metrics.CountRecord(rec.SeverityLevel())
	return nil
}

// HandleMalformed counts the rejected line.
func (s MetricsSink) HandleMalformed(int, string, error) {
	s.Metrics.CountParseFailure()
}
