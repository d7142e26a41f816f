package metrics

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvaluation(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RecordEvaluation("check", true, 0.001)
	m.RecordEvaluation("check", true, 0.002)
	m.RecordEvaluation("check", false, 0.001)
	m.RecordError("check", "validation")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.evaluations.WithLabelValues("check", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("check", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evalErrors.WithLabelValues("check", "validation")))
}

func TestRecordUtilizationCountsConsumedSections(t *testing.T) {
	t.Parallel()

	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordUtilization("fire", math.Inf(1))
	m.RecordUtilization("fire", 0.4)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.consumedSection))
}

func TestRecordCache(t *testing.T) {
	t.Parallel()

	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordCache(true)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestDoubleRegistrationFails(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordEvaluation("check", true, 0.1)
		m.RecordError("check", "internal")
		m.RecordUtilization("normal", 0.5)
		m.RecordCache(true)
	})
}
