package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	catalog     *prometheus.CounterVec
	inFlight    prometheus.Gauge
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forexdash_predictions_total",
				Help: "Settled prediction requests by profile and outcome",
			},
			[]string{"profile", "outcome"},
		),
		rejected: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forexdash_predictions_rejected_total",
				Help: "Prediction triggers ignored because a request was in flight",
			},
			[]string{"profile"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forexdash_prediction_duration_seconds",
				Help:    "Duration of prediction requests in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"profile"},
		),
		catalog: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forexdash_catalog_fetch_total",
				Help: "Catalog lookups by resource and outcome",
			},
			[]string{"resource", "outcome"},
		),
		inFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "forexdash_prediction_in_flight",
				Help: "1 while a prediction request is in flight",
			},
		),
	}
}

// RecordPrediction records a settled request.
func (r *Recorder) RecordPrediction(profile, outcome string, d time.Duration) {
	r.predictions.WithLabelValues(profile, outcome).Inc()
	r.latency.WithLabelValues(profile).Observe(d.Seconds())
}

// RecordRejected records a trigger dropped by the single-flight rule.
func (r *Recorder) RecordRejected(profile string) {
	r.rejected.WithLabelValues(profile).Inc()
}

// RecordCatalogFetch records a pairs or indicators lookup.
func (r *Recorder) RecordCatalogFetch(resource, outcome string) {
	r.catalog.WithLabelValues(resource, outcome).Inc()
}

func (r *Recorder) SetInFlight(inFlight bool) {
	if inFlight {
		r.inFlight.Set(1)
		return
	}
	r.inFlight.Set(0)
}
