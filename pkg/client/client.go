package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Client is a hand-written HTTP client for the scheduler's control API.
// It never drives scheduler execution itself: every mutating call reaches
// the same SchedulerQueue a running handler would use, same as a direct
// HTTP request against the control API would.
type Client struct {
	baseURL string
	opts    *options
	ws      *WebSocketClient
}

// New creates a new control API client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Client{baseURL: baseURL, opts: o}, nil
}

// TaskSnapshot mirrors internal/sched.TaskSnapshot for SDK consumers.
type TaskSnapshot struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	DuplicatePolicy string `json:"duplicate_policy"`
	Expired         bool   `json:"expired"`
	Paused          bool   `json:"paused"`
}

// ListTasksResponse is the decoded body of GET /control/v1/tasks.
type ListTasksResponse struct {
	Tasks      []TaskSnapshot `json:"tasks"`
	TotalCount int            `json:"total_count"`
}

// QueueStatus is the decoded body of GET /control/v1/queue.
type QueueStatus struct {
	PendingEvents []string `json:"pending_events"`
	PendingCount  int      `json:"pending_count"`
}

// FailureRecord mirrors internal/failuresink.Record for SDK consumers.
type FailureRecord struct {
	Source     string `json:"source"`
	Kind       int    `json:"kind"`
	Error      string `json:"error"`
	OccurredAt string `json:"occurred_at"`
}

// FailuresResponse is the decoded body of GET /control/v1/failures.
type FailuresResponse struct {
	Failures []FailureRecord `json:"failures"`
	Size     int             `json:"size"`
}

// HealthStatus is the decoded body of GET /control/v1/health.
type HealthStatus struct {
	Status    string `json:"status"`
	TaskCount int    `json:"task_count"`
	Bridge    string `json:"bridge,omitempty"`
}

// ListTasks returns every task and subscription currently held by the engine.
func (c *Client) ListTasks(ctx context.Context) (*ListTasksResponse, error) {
	var out ListTasksResponse
	if err := c.do(ctx, http.MethodGet, "/control/v1/tasks", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveTask enqueues removal of the named task or subscription.
func (c *Client) RemoveTask(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/control/v1/tasks/"+name, nil, nil)
}

// RemoveScheduledTasks enqueues removal of every time-triggered task.
func (c *Client) RemoveScheduledTasks(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/control/v1/tasks", nil, nil)
}

// TriggerEvent enqueues a named event trigger for the next tick to consume.
func (c *Client) TriggerEvent(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/control/v1/events/"+name, nil, nil)
}

// Pause pauses the running engine.
func (c *Client) Pause(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/control/v1/pause", nil, nil)
}

// Resume resumes a paused engine.
func (c *Client) Resume(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/control/v1/resume", nil, nil)
}

// QueueStatus returns the SchedulerQueue's pending modification count.
func (c *Client) QueueStatus(ctx context.Context) (*QueueStatus, error) {
	var out QueueStatus
	if err := c.do(ctx, http.MethodGet, "/control/v1/queue", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Failures returns up to limit recent handler/finalizer failure records.
// A limit of zero uses the server's default.
func (c *Client) Failures(ctx context.Context, limit int) (*FailuresResponse, error) {
	path := "/control/v1/failures"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var out FailuresResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports engine liveness and, when configured, the event bridge's
// Redis connectivity. It returns a populated HealthStatus even when the
// server reports 503 (bridge disconnected) — that is a degraded-but-valid
// response, not a transport error.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/control/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.opts.applyHeaders(req)

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var out HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// ConnectWebSocket establishes a WebSocket connection for real-time events.
func (c *Client) ConnectWebSocket(ctx context.Context) error {
	if c.ws != nil && c.ws.IsConnected() {
		return nil
	}
	c.ws = newWebSocketClient(c.baseURL, c.opts.apiKey)
	return c.ws.Connect(ctx)
}

// Events returns a channel that receives WebSocket events. Must call
// ConnectWebSocket first.
func (c *Client) Events() <-chan *Event {
	if c.ws == nil {
		ch := make(chan *Event)
		close(ch)
		return ch
	}
	return c.ws.Events()
}

// CloseWebSocket closes the WebSocket connection.
func (c *Client) CloseWebSocket() error {
	if c.ws == nil {
		return nil
	}
	return c.ws.Close()
}

// SubscribeEvents subscribes to specific event types over the WebSocket.
func (c *Client) SubscribeEvents(eventTypes ...EventType) error {
	if c.ws == nil {
		return fmt.Errorf("websocket not connected")
	}
	return c.ws.Subscribe(eventTypes...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = *bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.opts.applyHeaders(req)

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Message != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
