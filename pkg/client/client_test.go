package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/control/v1/tasks", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ListTasksResponse{
			Tasks:      []TaskSnapshot{{Name: "greet", Kind: "task"}},
			TotalCount: 1,
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	resp, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "greet", resp.Tasks[0].Name)
}

func TestClient_TriggerEvent_SendsAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/control/v1/events/deploy", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithAPIKey("secret"))
	require.NoError(t, err)

	require.NoError(t, c.TriggerEvent(context.Background(), "deploy"))
}

func TestClient_Health_DegradedStillDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthStatus{Status: "healthy", TaskCount: 2, Bridge: "disconnected"})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "disconnected", status.Bridge)
}

func TestClient_RemoveTask_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Bad Request", "message": "task name is required"})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	err = c.RemoveTask(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task name is required")
}
