package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/fitlog-api/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveRegistration(metrics.ResultSuccess)
	m.ObserveRegistration(metrics.ResultConflict)
	m.ObserveLogin(metrics.ResultFailure)
	m.ObserveTokenIssued(metrics.TokenSession)
	m.ObserveHTTPRequest(http.MethodGet, "/api/exercises/{id}", http.StatusOK, 15*time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(),
		"auth_registrations_total", "auth_logins_total", "auth_tokens_issued_total", "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/exercises/{id}",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `auth_registrations_total{result="conflict"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveRegistration(metrics.ResultSuccess)
		m.ObserveLogin(metrics.ResultSuccess)
		m.ObserveTokenIssued(metrics.TokenConfirmation)
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}
