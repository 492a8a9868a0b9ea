package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumercado/cotask/internal/sched"
)

func newTestEngine(t *testing.T) *sched.Engine {
	t.Helper()
	engine := sched.NewEngine()
	engine.AddTask(sched.New("greet", sched.Action(func() {})))
	return engine
}

func TestTaskHandler_List(t *testing.T) {
	engine := newTestEngine(t)
	h := NewTaskHandler(engine)

	req := httptest.NewRequest(http.MethodGet, "/control/v1/tasks", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "greet", resp.Tasks[0].Name)
}

func TestTaskHandler_Remove(t *testing.T) {
	engine := newTestEngine(t)
	h := NewTaskHandler(engine)

	r := chi.NewRouter()
	r.Delete("/control/v1/tasks/{name}", h.Remove)

	req := httptest.NewRequest(http.MethodDelete, "/control/v1/tasks/greet", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, engine.Queue().PendingCount())
}

func TestTaskHandler_RemoveScheduled(t *testing.T) {
	engine := newTestEngine(t)
	h := NewTaskHandler(engine)

	req := httptest.NewRequest(http.MethodDelete, "/control/v1/tasks", nil)
	rec := httptest.NewRecorder()
	h.RemoveScheduled(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, engine.Queue().PendingCount())
}

func TestTaskHandler_TriggerEvent(t *testing.T) {
	engine := newTestEngine(t)
	h := NewTaskHandler(engine)

	r := chi.NewRouter()
	r.Post("/control/v1/events/{name}", h.TriggerEvent)

	req := httptest.NewRequest(http.MethodPost, "/control/v1/events/deploy", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, engine.Queue().PendingCount())
	assert.Contains(t, engine.Queue().PendingEventNames(), "deploy")
}

func TestTaskHandler_PauseResume(t *testing.T) {
	engine := newTestEngine(t)
	h := NewTaskHandler(engine)

	rec := httptest.NewRecorder()
	h.Pause(rec, httptest.NewRequest(http.MethodPost, "/control/v1/pause", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Resume(rec, httptest.NewRequest(http.MethodPost, "/control/v1/resume", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskHandler_QueueStatus(t *testing.T) {
	engine := newTestEngine(t)
	h := NewTaskHandler(engine)

	engine.Queue().TriggerEvent("deploy")

	req := httptest.NewRequest(http.MethodGet, "/control/v1/queue", nil)
	rec := httptest.NewRecorder()
	h.QueueStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["pending_count"])
}
