// Package metrics exposes Prometheus instrumentation for the scrape and
// ranking pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pipeline Prometheus metrics. Instances carry their own
// registry so tests can construct as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Scrape metrics
	postingsScraped *prometheus.CounterVec
	sourceErrors    *prometheus.CounterVec
	scrapeDuration  *prometheus.HistogramVec

	// Pipeline metrics
	runsCompleted *prometheus.CounterVec
	runDuration   prometheus.Histogram
	rowsUpserted  prometheus.Counter
	rowsRetired   prometheus.Counter

	// Harvest metrics
	emailsFound *prometheus.CounterVec
}

// New creates a Metrics instance backed by a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		postingsScraped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "easyinterns_postings_scraped_total",
			Help: "Total postings returned per source",
		}, []string{"source"}),
		sourceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "easyinterns_source_errors_total",
			Help: "Total scrape failures per source",
		}, []string{"source"}),
		scrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "easyinterns_scrape_duration_seconds",
			Help:    "Time to scrape a single source",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"source"}),
		runsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "easyinterns_runs_completed_total",
			Help: "Total pipeline runs by outcome",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "easyinterns_run_duration_seconds",
			Help:    "End-to-end pipeline run duration",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		rowsUpserted: factory.NewCounter(prometheus.CounterOpts{
			Name: "easyinterns_rows_upserted_total",
			Help: "Total internship rows inserted or refreshed",
		}),
		rowsRetired: factory.NewCounter(prometheus.CounterOpts{
			Name: "easyinterns_rows_retired_total",
			Help: "Total internship rows marked inactive",
		}),
		emailsFound: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "easyinterns_emails_found_total",
			Help: "Total contact emails harvested by discovery source",
		}, []string{"source"}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// PostingsScraped records n postings returned by a source.
func (m *Metrics) PostingsScraped(source string, n int) {
	m.postingsScraped.WithLabelValues(source).Add(float64(n))
}

// SourceError records a failed scrape for a source.
func (m *Metrics) SourceError(source string) {
	m.sourceErrors.WithLabelValues(source).Inc()
}

// ScrapeDuration records how long one source took.
func (m *Metrics) ScrapeDuration(source string, d time.Duration) {
	m.scrapeDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RunCompleted records a finished pipeline run with its outcome status.
func (m *Metrics) RunCompleted(status string, d time.Duration) {
	m.runsCompleted.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
}

// RowsUpserted records n rows inserted or refreshed in one run.
func (m *Metrics) RowsUpserted(n int) {
	m.rowsUpserted.Add(float64(n))
}

// RowsRetired records n rows marked inactive in one run.
func (m *Metrics) RowsRetired(n int) {
	m.rowsRetired.Add(float64(n))
}

// EmailFound records a harvested contact email by discovery source.
func (m *Metrics) EmailFound(source string) {
	m.emailsFound.WithLabelValues(source).Inc()
}
