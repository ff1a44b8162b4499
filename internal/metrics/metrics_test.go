package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveGeneration(nil, time.Second)
	m.ObserveBuild(errors.New("boom"), time.Minute)
	m.ObserveBuild(nil, time.Minute)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.builds.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.builds.WithLabelValues("success")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration(nil, time.Second)
		m.ObserveBuild(nil, time.Second)
	})
	assert.Nil(t, m.Registry())
}
