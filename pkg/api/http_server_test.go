package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvbind/pkg/common"
	"kvbind/pkg/monitor"
)

func TestMetricsExposesPrometheusFormat(t *testing.T) {
	stats := monitor.NewWorkloadStats()
	stats.Observe(monitor.OpRead, common.StatusOK, time.Millisecond)
	stats.Observe(monitor.OpDelete, common.StatusNotImplemented, time.Microsecond)

	s := NewServer(stats, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		`kvbind_operations_total{op="read",status="OK"} 1`,
		`kvbind_operations_total{op="delete",status="NOT_IMPLEMENTED"} 1`,
		"kvbind_operation_latency_seconds_bucket",
	} {
		assert.Contains(t, body, want)
	}
}

func TestStatsJSON(t *testing.T) {
	stats := monitor.NewWorkloadStats()
	stats.Observe(monitor.OpInsert, common.StatusOK, time.Millisecond)

	s := NewServer(stats, nil)
	s.SetPhase(func() string { return "load" })
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Phase      string                       `json:"phase"`
		Writes     uint64                       `json:"writes"`
		Operations map[string]map[string]uint64 `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "load", resp.Phase)
	assert.Equal(t, uint64(1), resp.Writes)
	assert.Equal(t, uint64(1), resp.Operations["insert"]["OK"])
}

func TestStatsRejectsPost(t *testing.T) {
	s := NewServer(monitor.NewWorkloadStats(), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
