package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maumercado/cotask/internal/logger"
	"github.com/maumercado/cotask/internal/sched"
)

// TaskHandler serves the control API's task/event/pause surface against a
// single running Engine. It never executes handler code itself — every
// mutating call only ever enqueues a modification onto the Engine's own
// SchedulerQueue, the same channel a running handler would use.
type TaskHandler struct {
	engine *sched.Engine
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(engine *sched.Engine) *TaskHandler {
	return &TaskHandler{engine: engine}
}

// List handles GET /control/v1/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, ListResponse{
		Tasks:      h.engine.Snapshot(),
		TotalCount: h.engine.Len(),
	})
}

// Remove handles DELETE /control/v1/tasks/{name}
func (h *TaskHandler) Remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.respondError(w, http.StatusBadRequest, "task name is required")
		return
	}

	h.engine.Queue().RemoveTask(name)

	logger.Info().Str("name", name).Msg("task removal enqueued")
	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "removal enqueued",
		"name":    name,
	})
}

// RemoveScheduled handles DELETE /control/v1/tasks
func (h *TaskHandler) RemoveScheduled(w http.ResponseWriter, r *http.Request) {
	h.engine.Queue().RemoveScheduledTasks()

	logger.Info().Msg("scheduled task removal enqueued")
	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "removal of all time-triggered tasks enqueued",
	})
}

// TriggerEvent handles POST /control/v1/events/{name}
func (h *TaskHandler) TriggerEvent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.respondError(w, http.StatusBadRequest, "event name is required")
		return
	}

	h.engine.Queue().TriggerEvent(name)

	logger.Info().Str("event", name).Msg("event trigger enqueued")
	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "trigger enqueued",
		"event":   name,
	})
}

// Pause handles POST /control/v1/pause
func (h *TaskHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.engine.Pause()
	logger.Info().Msg("engine paused")
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "engine paused"})
}

// Resume handles POST /control/v1/resume
func (h *TaskHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.engine.Resume()
	logger.Info().Msg("engine resumed")
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "engine resumed"})
}

// QueueStatus handles GET /control/v1/queue
func (h *TaskHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	q := h.engine.Queue()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"pending_events": q.PendingEventNames(),
		"pending_count":  q.PendingCount(),
	})
}

// ListResponse represents the response for listing tasks.
type ListResponse struct {
	Tasks      []sched.TaskSnapshot `json:"tasks"`
	TotalCount int                  `json:"total_count"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *TaskHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (h *TaskHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
