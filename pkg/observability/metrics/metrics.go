package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes
const (
	OutcomeOK          = "ok"
	OutcomeWarning     = "warning"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "symptomcheck",
		Subsystem: "prediction",
		Name:      "requests_total",
		Help:      "Number of prediction requests by engine and outcome.",
	}, []string{"engine", "outcome"})

	predictionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "symptomcheck",
		Subsystem: "prediction",
		Name:      "latency_seconds",
		Help:      "Prediction latency by engine.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
	}, []string{"engine"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "symptomcheck",
		Subsystem: "prediction",
		Name:      "cache_lookups_total",
		Help:      "Prediction cache lookups by result.",
	}, []string{"result"})

	unknownSymptoms = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "symptomcheck",
		Subsystem: "scoring",
		Name:      "unknown_symptoms_total",
		Help:      "Submitted symptoms that were not present in the catalog.",
	})

	auditEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "symptomcheck",
		Subsystem: "audit",
		Name:      "events_total",
		Help:      "Prediction events consumed by the audit service.",
	}, []string{"status"})
)

func ObservePrediction(engine, outcome string, latency time.Duration) {
	predictionsTotal.WithLabelValues(engine, outcome).Inc()
	if outcome == OutcomeOK {
		predictionLatency.WithLabelValues(engine).Observe(latency.Seconds())
	}
}

func ObserveCache(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

func ObserveUnknownSymptoms(n int) {
	if n > 0 {
		unknownSymptoms.Add(float64(n))
	}
}

func ObserveAuditEvent(status string) {
	auditEvents.WithLabelValues(status).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
