package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezumat/internal/domain"
	"rezumat/internal/metrics"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	m.Message("link")
	m.Fetch(domain.TierPrimary)
	m.Summary("ok", time.Second)
	m.BatchItem("failed")
	m.Truncated()
	m.PrunedLimiters(3)

	assert.Nil(t, m.Registry())
}

func TestHandlerExposesCounters(t *testing.T) {
	m := metrics.New()
	m.Fetch(domain.TierRemoteReader)
	m.Fetch(domain.TierRemoteReader)
	m.Summary("rate_limited", 2*time.Second)

	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `rezumat_fetches_total{tier="remote_reader"} 2`)
	assert.Contains(t, string(body), `rezumat_summaries_total{result="rate_limited"} 1`)
	assert.Contains(t, string(body), "rezumat_summary_duration_seconds_count 1")
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(metrics.New().Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
