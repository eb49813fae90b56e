package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/wizard/sessions/:id", 200, 10*time.Millisecond)
	m.ObserveUpstream("list_courses", 200, 20*time.Millisecond)
	m.ObserveUpstream("list_courses", 0, 40*time.Millisecond)
	m.ObserveUpstream("create_student", 503, 10*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordSubmission("create", "ok")

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.Equal(t, uint64(3), snap.UpstreamCalls)
	assert.Equal(t, uint64(2), snap.UpstreamFailures)
	assert.InDelta(t, 23.33, snap.AverageUpstreamDurationMs, 0.01)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), snap.Submissions)
}

func TestMetricsServiceHandlerExposesWizardCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordTransition("next", "personal", "invalid")
	m.RecordSuperseded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `wizard_transitions_total{event="next",outcome="invalid",step="personal"} 1`))
	assert.Contains(t, body, "option_fetches_superseded_total 1")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveUpstream("x", 200, time.Millisecond)
	m.RecordTransition("next", "personal", "ok")
	assert.Zero(t, m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
