package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"tripwizard/pkg/metrics"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.ObserveCompletion("openai", metrics.OutcomeSuccess, 2*time.Second)
	r.ObserveCompletion("openai", metrics.OutcomeFailure, time.Second)
	r.ObserveCompletion("openai", metrics.OutcomeSuccess, time.Second)
	r.ObserveTransition("preferences", "selection")
	r.ObserveRejection("missing_input")

	n, err := testutil.GatherAndCount(reg, "tripwizard_completions_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = testutil.GatherAndCount(reg, "tripwizard_stage_transitions_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.ObserveCompletion("openai", metrics.OutcomeSuccess, time.Second)
		r.ObserveTransition("a", "b")
		r.ObserveRejection("x")
	})
}
