package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumercado/cotask/internal/failuresink"
)

func TestAdminHandler_Failures(t *testing.T) {
	sink := failuresink.NewMemory(10)
	sink.Add(failuresink.Record{
		Source:     "greet",
		Kind:       failuresink.KindHandler,
		Error:      "boom",
		OccurredAt: time.Unix(0, 0),
	})

	engine := newTestEngine(t)
	h := NewAdminHandler(engine, sink, nil)

	req := httptest.NewRequest(http.MethodGet, "/control/v1/failures", nil)
	rec := httptest.NewRecorder()
	h.Failures(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["size"])
}

func TestAdminHandler_Failures_RespectsLimit(t *testing.T) {
	sink := failuresink.NewMemory(10)
	for i := 0; i < 5; i++ {
		sink.Add(failuresink.Record{Source: "greet", Kind: failuresink.KindHandler, Error: "boom"})
	}

	engine := newTestEngine(t)
	h := NewAdminHandler(engine, sink, nil)

	req := httptest.NewRequest(http.MethodGet, "/control/v1/failures?limit=2", nil)
	rec := httptest.NewRecorder()
	h.Failures(rec, req)

	var resp struct {
		Failures []failuresink.Record `json:"failures"`
		Size     int                  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Failures, 2)
	assert.Equal(t, 5, resp.Size)
}

func TestAdminHandler_HealthCheck_NoRedis(t *testing.T) {
	engine := newTestEngine(t)
	h := NewAdminHandler(engine, failuresink.NewMemory(10), nil)

	req := httptest.NewRequest(http.MethodGet, "/control/v1/health", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.EqualValues(t, 1, resp["task_count"])
}
