package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder holds the wizard's collectors. A nil *Recorder records nothing.
type Recorder struct {
	completions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	warnings    *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripwizard_completions_total",
			Help: "Chat completion calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripwizard_completion_duration_seconds",
			Help:    "Latency of chat completion calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripwizard_stage_transitions_total",
			Help: "Stage changes by origin and destination stage.",
		}, []string{"from", "to"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripwizard_rejected_actions_total",
			Help: "Actions rejected before any model call, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(r.completions, r.latency, r.transitions, r.warnings)
	return r
}

func (r *Recorder) ObserveCompletion(provider, outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.completions.WithLabelValues(provider, outcome).Inc()
	r.latency.WithLabelValues(provider).Observe(took.Seconds())
}

func (r *Recorder) ObserveTransition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) ObserveRejection(reason string) {
	if r == nil {
		return
	}
	r.warnings.WithLabelValues(reason).Inc()
}
