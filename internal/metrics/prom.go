package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes used as the "outcome" label.
const (
	OutcomeSuccess    = "success"
	OutcomeBadRequest = "bad_request"
	OutcomeTooShort   = "too_short"
	OutcomeDraining   = "draining"
	OutcomeCanceled   = "canceled"
	OutcomeError      = "error"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "larchmock_server_build_info",
			Help:        "Build information for the larchmock server",
			ConstLabels: prometheus.Labels{"component": "server"},
		},
		[]string{"date", "sha", "version"},
	)

	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larchmock_generations_total",
			Help: "Number of generation requests by outcome",
		},
		[]string{"outcome"},
	)

	generationEdits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larchmock_generation_edits_total",
			Help: "Edit operations returned by generations",
		},
		[]string{"type"},
	)

	generationsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "larchmock_generations_inflight",
			Help: "Generations currently waiting or being synthesized",
		},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "larchmock_generation_duration_seconds",
			Help:    "Wall time of generation requests including the artificial delay",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 7.5, 10, 30},
		},
	)
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, generations, generationEdits, generationsInflight, generationDuration)
}

// SetServerBuildInfo sets the build info metric for the server.
func SetServerBuildInfo(version, sha, date string) {
	buildInfo.WithLabelValues(date, sha, version).Set(1)
}

// GenerationStart increments the in-flight gauge.
func GenerationStart() { generationsInflight.Inc() }

// GenerationEnd decrements the in-flight gauge and records the outcome and duration.
func GenerationEnd(outcome string, d time.Duration) {
	generationsInflight.Dec()
	generations.WithLabelValues(outcome).Inc()
	generationDuration.Observe(d.Seconds())
}

// RecordRejected counts a generation refused before it started.
func RecordRejected(outcome string) {
	generations.WithLabelValues(outcome).Inc()
}

// RecordEdit counts one returned edit operation of the given type.
func RecordEdit(editType string) {
	generationEdits.WithLabelValues(editType).Inc()
}
