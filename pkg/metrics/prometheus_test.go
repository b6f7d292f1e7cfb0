package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordPrediction("full", "success", 2*time.Second)
	r.RecordPrediction("full", "success", time.Second)
	r.RecordPrediction("ultra_quick", "timeout", time.Minute)
	r.RecordRejected("quick")
	r.RecordCatalogFetch("pairs", "cache_hit")
	r.SetInFlight(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.predictions.WithLabelValues("full", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.predictions.WithLabelValues("ultra_quick", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues("quick")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.catalog.WithLabelValues("pairs", "cache_hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inFlight))

	r.SetInFlight(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.inFlight))
}
