// Package metrics exposes Prometheus collectors for extraction, inference
// and export requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Extraction results.
const (
	ResultOK           = "ok"
	ResultInvalidInput = "invalid_input"
	ResultTimeout      = "timeout"
)

// Metrics holds the service collectors.
//
// Metrics:
//   - texthunter_extractions_total{result} - extraction requests by outcome
//   - texthunter_matches_total - match records produced
//   - texthunter_pages_scanned_total - pages handed to the matcher
//   - texthunter_extraction_duration_seconds - wall time of a full extraction
//   - texthunter_inferences_total{strategy} - inferred patterns by strategy
//   - texthunter_exports_total{context} - spreadsheets written
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal   *prometheus.CounterVec
	MatchesTotal       prometheus.Counter
	PagesScannedTotal  prometheus.Counter
	ExtractionDuration prometheus.Histogram
	InferencesTotal    *prometheus.CounterVec
	ExportsTotal       *prometheus.CounterVec
}

// New creates collectors registered on a fresh registry that also carries
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "texthunter_extractions_total",
				Help: "Total number of extraction requests",
			},
			[]string{"result"},
		),
		MatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "texthunter_matches_total",
			Help: "Total number of match records produced",
		}),
		PagesScannedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "texthunter_pages_scanned_total",
			Help: "Total number of pages submitted for extraction",
		}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "texthunter_extraction_duration_seconds",
			Help:    "Duration of extraction requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		InferencesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "texthunter_inferences_total",
				Help: "Total number of inferred patterns",
			},
			[]string{"strategy"},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "texthunter_exports_total",
				Help: "Total number of spreadsheets exported",
			},
			[]string{"context"},
		),
	}
}

// Registry returns the registry backing these collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordExtraction records one extraction request.
func (m *Metrics) RecordExtraction(result string, pages, matches int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(result).Inc()
	m.PagesScannedTotal.Add(float64(pages))
	m.MatchesTotal.Add(float64(matches))
	m.ExtractionDuration.Observe(elapsed.Seconds())
}

// RecordInference records one inferred pattern.
func (m *Metrics) RecordInference(strategy string) {
	if m == nil {
		return
	}
	m.InferencesTotal.WithLabelValues(strategy).Inc()
}

// RecordExport records one written spreadsheet.
func (m *Metrics) RecordExport(includeContext bool) {
	if m == nil {
		return
	}
	label := "without"
	if includeContext {
		label = "with"
	}
	m.ExportsTotal.WithLabelValues(label).Inc()
}
