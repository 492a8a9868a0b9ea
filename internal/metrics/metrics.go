package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cotask_tick_duration_seconds",
			Help:    "Engine tick duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to ~1.6s
		},
	)

	TasksActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cotask_tasks_active",
			Help: "Current number of unexpired tasks held by the engine",
		},
	)

	SubscriptionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cotask_subscriptions_active",
			Help: "Current number of subscriptions held by the engine",
		},
	)

	TasksAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_tasks_added_total",
			Help: "Total number of tasks/subscriptions added to the engine",
		},
		[]string{"kind"},
	)

	TasksExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_tasks_expired_total",
			Help: "Total number of tasks reaped after expiring",
		},
		[]string{"kind"},
	)

	EventsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_events_triggered_total",
			Help: "Total number of named events triggered through the scheduler queue",
		},
		[]string{"event"},
	)

	HandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_handler_errors_total",
			Help: "Total number of handler errors routed to a catch handler",
		},
		[]string{"source"},
	)

	FinalizerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_finalizer_errors_total",
			Help: "Total number of finally-handler errors routed to a catch handler",
		},
		[]string{"source"},
	)

	EngineReentries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cotask_engine_reentries_total",
			Help: "Total number of rejected re-entrant Run/RunOnce calls",
		},
	)

	// HTTP metrics (control plane)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cotask_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// WebSocket metrics (control plane)
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cotask_websocket_connections",
			Help: "Current number of WebSocket connections",
		},
	)

	WebSocketMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_websocket_messages_total",
			Help: "Total number of WebSocket messages sent",
		},
		[]string{"type"},
	)

	// Redis metrics (event bridge, failure sink)
	RedisOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cotask_redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~200ms
		},
		[]string{"operation"},
	)

	RedisOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotask_redis_operation_errors_total",
			Help: "Total number of Redis operation errors",
		},
		[]string{"operation"},
	)
)

// RecordTick records one engine tick's duration.
func RecordTick(seconds float64) {
	TickDuration.Observe(seconds)
}

// SetActiveCounts updates the active task/subscription gauges.
func SetActiveCounts(tasks, subscriptions float64) {
	TasksActive.Set(tasks)
	SubscriptionsActive.Set(subscriptions)
}

// RecordTaskAdded records a task or subscription being added to the engine.
func RecordTaskAdded(kind string) {
	TasksAdded.WithLabelValues(kind).Inc()
}

// RecordTaskExpired records a task or subscription being reaped.
func RecordTaskExpired(kind string) {
	TasksExpired.WithLabelValues(kind).Inc()
}

// RecordEventTriggered records a named event being drained by the engine.
func RecordEventTriggered(event string) {
	EventsTriggered.WithLabelValues(event).Inc()
}

// RecordHandlerError records a handler error routed to a catch handler.
func RecordHandlerError(source string) {
	HandlerErrors.WithLabelValues(source).Inc()
}

// RecordFinalizerError records a finally-handler error routed to a catch handler.
func RecordFinalizerError(source string) {
	FinalizerErrors.WithLabelValues(source).Inc()
}

// RecordEngineReentry records a rejected re-entrant Run/RunOnce call.
func RecordEngineReentry() {
	EngineReentries.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// SetWebSocketConnections sets the WebSocket connections gauge.
func SetWebSocketConnections(count float64) {
	WebSocketConnections.Set(count)
}

// RecordWebSocketMessage records a WebSocket message.
func RecordWebSocketMessage(msgType string) {
	WebSocketMessages.WithLabelValues(msgType).Inc()
}

// RecordRedisOperation records a Redis operation's duration.
func RecordRedisOperation(operation string, duration float64) {
	RedisOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordRedisOperationError records a Redis operation failure.
func RecordRedisOperationError(operation string) {
	RedisOperationErrors.WithLabelValues(operation).Inc()
}
