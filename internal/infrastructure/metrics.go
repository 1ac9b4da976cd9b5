package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the export pipeline.
type Metrics struct {
	registry *prometheus.Registry

	// ExportsTotal counts export requests by document format and outcome.
	ExportsTotal *prometheus.CounterVec
	// ExportRows observes how many rows each export produced.
	ExportRows prometheus.Histogram
	// ExportDuration observes end-to-end export latency in seconds.
	ExportDuration prometheus.Histogram
	// BulkJobsActive tracks currently running bulk export jobs.
	BulkJobsActive prometheus.Gauge
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rechnungsprofi",
			Name:      "exports_total",
			Help:      "Number of export requests by format and outcome.",
		}, []string{"format", "outcome"}),
		ExportRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rechnungsprofi",
			Name:      "export_rows",
			Help:      "Rows per export document.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 6),
		}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rechnungsprofi",
			Name:      "export_duration_seconds",
			Help:      "End-to-end export latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		BulkJobsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rechnungsprofi",
			Name:      "bulk_jobs_active",
			Help:      "Bulk export jobs currently running.",
		}),
	}

	registry.MustRegister(m.ExportsTotal, m.ExportRows, m.ExportDuration, m.BulkJobsActive)
	return m
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
