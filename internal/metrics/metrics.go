package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the service
type Metrics struct {
	registry *prometheus.Registry

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Transcription metrics
	Transcriptions        *prometheus.CounterVec
	TranscriptionDuration prometheus.Histogram

	// Export metrics
	Exports *prometheus.CounterVec

	// Record store metrics
	RecordsCreated prometheus.Counter
	RecordsDeleted prometheus.Counter
}

// NewMetrics creates all metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxscribe_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxscribe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		Transcriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxscribe_transcriptions_total",
			Help: "Transcription requests by outcome",
		}, []string{"outcome"}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxscribe_transcription_upstream_seconds",
			Help:    "Latency of upstream transcription calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2 minutes
		}),

		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxscribe_exports_total",
			Help: "Transcript exports by delivered format",
		}, []string{"format"}),

		RecordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxscribe_records_created_total",
			Help: "Total number of transcript records saved",
		}),
		RecordsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxscribe_records_deleted_total",
			Help: "Total number of transcript records deleted",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for scraping and tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTranscription records the outcome and latency of an upstream call
func (m *Metrics) ObserveTranscription(outcome string, elapsed time.Duration) {
	m.Transcriptions.WithLabelValues(outcome).Inc()
	m.TranscriptionDuration.Observe(elapsed.Seconds())
}

// ObserveExport records the format an export was delivered in
func (m *Metrics) ObserveExport(format string) {
	m.Exports.WithLabelValues(format).Inc()
}

// RecordCreated increments the records created counter
func (m *Metrics) RecordCreated() {
	m.RecordsCreated.Inc()
}

// RecordsRemoved adds n to the records deleted counter
func (m *Metrics) RecordsRemoved(n int64) {
	if n > 0 {
		m.RecordsDeleted.Add(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, route, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// Middleware records request counts and latency by matched route
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if route == "" || (route == "/" && c.Path() != "/") {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Method(), route, strconv.Itoa(status), time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
