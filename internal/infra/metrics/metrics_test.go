package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.CatalogRequest("top_tracks", OutcomeOK)
	m.CatalogRequest("top_tracks", OutcomeOK)
	m.CatalogFallback("search")
	m.Play()
	m.RPC("/tunewave.v1.PlayerService/Play", "ok", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.catalogRequests.WithLabelValues("top_tracks", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogFallbacks.WithLabelValues("search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.plays))
	assert.Equal(t, 1, testutil.CollectAndCount(m.rpcDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Play()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "tunewave_plays_total 1")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CatalogRequest("x", OutcomeError)
		m.CatalogFallback("x")
		m.Enrichment(OutcomeOK)
		m.Play()
		m.RPC("p", "ok", time.Second)
	})
	assert.Nil(t, m.Registry())
}
