package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/maumercado/cotask/internal/api/handlers"
	apiMiddleware "github.com/maumercado/cotask/internal/api/middleware"
	"github.com/maumercado/cotask/internal/api/websocket"
	"github.com/maumercado/cotask/internal/config"
	"github.com/maumercado/cotask/internal/events"
	"github.com/maumercado/cotask/internal/failuresink"
	"github.com/maumercado/cotask/internal/sched"
)

// Server is the control plane HTTP server. It never executes scheduler
// logic itself: every handler either reads an Engine snapshot or writes a
// modification onto the same SchedulerQueue a running handler would use.
type Server struct {
	router       *chi.Mux
	engine       *sched.Engine
	config       *config.Config
	taskHandler  *handlers.TaskHandler
	adminHandler *handlers.AdminHandler
	wsHub        *websocket.Hub
	wsHandler    *websocket.Handler
	publisher    events.Publisher
}

// NewServer creates a new control API server around engine. redisClient
// may be nil when the event bridge is disabled.
func NewServer(cfg *config.Config, engine *sched.Engine, publisher events.Publisher, sink failuresink.Sink, redisClient *redis.Client) *Server {
	wsHub := websocket.NewHub(publisher)

	s := &Server{
		router:       chi.NewRouter(),
		engine:       engine,
		config:       cfg,
		taskHandler:  handlers.NewTaskHandler(engine),
		adminHandler: handlers.NewAdminHandler(engine, sink, redisClient),
		wsHub:        wsHub,
		wsHandler:    websocket.NewHandler(wsHub),
		publisher:    publisher,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(apiMiddleware.RequestLogger())
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Heartbeat("/health"))
}

func (s *Server) setupRoutes() {
	authCfg := &apiMiddleware.AuthConfig{
		Enabled:   s.config.Auth.Enabled,
		JWTSecret: s.config.Auth.JWTSecret,
		APIKeys:   apiKeySet(s.config.Auth.APIKeys),
	}

	s.router.Route("/control/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(apiMiddleware.ClientRateLimit(defaultRateLimitRPS))

		r.Get("/tasks", s.taskHandler.List)
		r.Get("/queue", s.taskHandler.QueueStatus)
		r.Get("/failures", s.adminHandler.Failures)
		r.Get("/health", s.adminHandler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.Auth(authCfg))
			r.Use(apiMiddleware.RequireRole(apiMiddleware.RoleOperator))

			r.Delete("/tasks/{name}", s.taskHandler.Remove)
			r.Delete("/tasks", s.taskHandler.RemoveScheduled)
			r.Post("/events/{name}", s.taskHandler.TriggerEvent)
			r.Post("/pause", s.taskHandler.Pause)
			r.Post("/resume", s.taskHandler.Resume)
		})
	})

	s.router.Get("/ws", s.wsHandler.ServeWS)

	if s.config.Metrics.Enabled {
		// The metrics endpoint has no per-client identity worth tracking
		// (it's scraped by one collector, not called by many operators), so
		// it gets the plain global limiter rather than ClientRateLimit.
		s.router.With(apiMiddleware.RateLimit(defaultMetricsRateLimitRPS)).
			Handle(s.config.Metrics.Path, promhttp.Handler())
	}
}

// defaultRateLimitRPS bounds the control API's per-client request rate.
// There is no queue-throughput config to derive this from anymore (the
// domain has no queue to size against), so it is a fixed, generous default.
const defaultRateLimitRPS = 50

// defaultMetricsRateLimitRPS bounds scrape requests against /metrics.
const defaultMetricsRateLimitRPS = 10

func apiKeySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// Start starts the WebSocket hub.
func (s *Server) Start(ctx context.Context) {
	go s.wsHub.Run(ctx)
}

// Stop stops the WebSocket hub.
func (s *Server) Stop() {
	s.wsHub.Stop()
}

// Router returns the chi router.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
