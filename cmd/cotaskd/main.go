package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maumercado/cotask/internal/api"
	"github.com/maumercado/cotask/internal/config"
	"github.com/maumercado/cotask/internal/events"
	"github.com/maumercado/cotask/internal/failuresink"
	"github.com/maumercado/cotask/internal/logger"
	"github.com/maumercado/cotask/internal/sched"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, os.Getenv("ENV") != "production")

	log := logger.Get()
	log.Info().Msg("Starting cotaskd...")

	// The event bridge (outward publishing + inbound trigger forwarding) is
	// only wired up when a Redis address is configured; otherwise lifecycle
	// events stay in-process and the control API is the only trigger path.
	var publisher events.Publisher = events.NewInProcess()
	var redisClient *redis.Client
	var bridge *events.Bridge

	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		redisPublisher := events.NewRedisPubSub(redisClient)
		publisher = redisPublisher
		sched.SetDefaultFailureSink(failuresink.NewRedisSink(redisClient, 1000))

		defer func() {
			if err := redisPublisher.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close event publisher")
			}
		}()
	}

	engine := sched.NewEngine(
		sched.WithInterval(cfg.Engine.Interval),
		sched.WithPublisher(publisher),
	)

	registerDemoTasks(engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if redisClient != nil {
		redisPublisher := publisher.(*events.RedisPubSub)
		bridge = events.NewBridge(redisPublisher, engine.Queue())
		if err := bridge.Start(ctx); err != nil {
			log.Error().Err(err).Msg("failed to start event bridge")
		}
		defer bridge.Stop()
	}

	server := api.NewServer(cfg, engine, publisher, sched.DefaultFailureSink(), redisClient)
	server.Start(ctx)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		err := engine.RunWhile(func(time.Time) bool {
			select {
			case <-ctx.Done():
				return false
			default:
				return true
			}
		})
		if err != nil {
			log.Error().Err(err).Msg("engine stopped unexpectedly")
		}
	}()

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down cotaskd...")

	engine.Pause()
	cancel()
	server.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("cotaskd stopped")
}

// registerDemoTasks seeds the engine with a small set of example units so
// a freshly started server has something to list, trigger, and watch
// expire. Operators are expected to replace these with their own tasks
// and subscriptions.
func registerDemoTasks(engine *sched.Engine) {
	engine.AddTask(
		sched.New("heartbeat", sched.Action(func() {
			logger.Info().Msg("heartbeat")
		})).
			Delay(time.Second).
			WithDuplicateHandler(sched.KeepOld),
	)

	engine.AddTask(
		sched.NewSubscription("on-deploy", "deploy", sched.Action(func() {
			logger.Info().Msg("deploy event received")
		})),
	)
}
