package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/logger"
	"github.com/pageza/pantrychef/backend/internal/mapper"
	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/router"
	"github.com/pageza/pantrychef/backend/internal/server"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/session"
	"github.com/pageza/pantrychef/backend/internal/telemetry"
	"github.com/pageza/pantrychef/backend/internal/validation"
)

const serviceName = "pantrychef-api"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: !cfg.IsProduction(),
	})
	defer func() { _ = zlog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
	zlog.Info("server stopped")
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(serviceName, cfg.TracingEnabled, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			zlog.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	metrics := telemetry.NewMetrics("pantrychef")

	m, err := mapper.New()
	if err != nil {
		return err
	}

	llm, err := service.NewLLMService(cfg.LLM, zlog, service.WithLLMMetrics(metrics))
	if err != nil {
		return err
	}

	v := validation.New()
	deps := router.Dependencies{
		Logger:              zlog,
		Metrics:             metrics,
		AllowedOrigin:       cfg.AppBaseURL,
		TrustedProxies:      cfg.TrustedProxies,
		RecipeService:       service.NewRecipeService(v, llm, m, zlog, metrics),
		SubstitutionService: service.NewSubstitutionService(v, llm, m, zlog, metrics),
		Tracker:             session.NewMemoryTracker(),
	}

	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, zlog)
		if err != nil {
			// Fall back to per-process tracking without rate limiting
			zlog.Warn("Redis unavailable, using in-memory submission tracking", zap.Error(err))
		} else {
			defer redisClient.Close()
			deps.Tracker = session.NewRedisTracker(redisClient, session.DefaultTTL)
			deps.RateLimiter = newRateLimiter(redisClient, cfg.RateLimit, zlog)
		}
	}

	srv := server.New(cfg, router.SetupRouter(deps), zlog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		zlog.Info("shutting down server")
	}

	return srv.Shutdown(context.Background())
}

func newRateLimiter(client *redis.Client, cfg config.RateLimitConfig, zlog *zap.Logger) *middleware.RateLimiter {
	if cfg.Limit == 0 {
		return nil
	}
	return middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window: cfg.Window,
		Limit:  cfg.Limit,
	}, zlog)
}
