// Package metrics defines the Prometheus metric collectors used by the
// symptom checker and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ChecksTotal          *prometheus.CounterVec
	CheckLatency         *prometheus.HistogramVec
	CheckResultsCount    prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	CorpusDiseases       prometheus.Gauge
	CorpusVocabularySize prometheus.Gauge
	CorpusReloadsTotal   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "symptom_checks_total",
				Help: "Total symptom checks by result type (match, zero_match, error).",
			},
			[]string{"result_type"},
		),
		CheckLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "symptom_check_latency_seconds",
				Help:    "Symptom check latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		CheckResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "symptom_check_results_count",
				Help:    "Number of ranked diseases returned per check.",
				Buckets: []float64{0, 1, 3, 5, 10, 25},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "check_cache_hits_total",
				Help: "Total number of check cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "check_cache_misses_total",
				Help: "Total number of check cache misses.",
			},
		),
		CorpusDiseases: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corpus_diseases",
				Help: "Number of disease profiles in the published snapshot.",
			},
		),
		CorpusVocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corpus_vocabulary_size",
				Help: "Number of distinct symptom terms in the published snapshot.",
			},
		),
		CorpusReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corpus_reloads_total",
				Help: "Total corpus reload operations by status.",
			},
			[]string{"status"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ChecksTotal,
		m.CheckLatency,
		m.CheckResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CorpusDiseases,
		m.CorpusVocabularySize,
		m.CorpusReloadsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
