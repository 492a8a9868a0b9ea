package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/maumercado/cotask/internal/failuresink"
	"github.com/maumercado/cotask/internal/logger"
	"github.com/maumercado/cotask/internal/sched"
)

// AdminHandler serves the control API's diagnostic surface: recent
// failures and liveness, including the optional Redis bridge's
// connectivity.
type AdminHandler struct {
	engine      *sched.Engine
	sink        failuresink.Sink
	redisClient *redis.Client
}

// NewAdminHandler creates a new admin handler. redisClient may be nil when
// the event bridge is disabled.
func NewAdminHandler(engine *sched.Engine, sink failuresink.Sink, redisClient *redis.Client) *AdminHandler {
	return &AdminHandler{engine: engine, sink: sink, redisClient: redisClient}
}

// Failures handles GET /control/v1/failures
func (h *AdminHandler) Failures(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records := h.sink.List(limit)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"failures": records,
		"size":     h.sink.Size(),
	})
}

// HealthCheck handles GET /control/v1/health
func (h *AdminHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":     "healthy",
		"task_count": h.engine.Len(),
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(r.Context()).Err(); err != nil {
			status["bridge"] = "disconnected"
			h.respondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["bridge"] = "connected"
	}

	h.respondJSON(w, http.StatusOK, status)
}

func (h *AdminHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
