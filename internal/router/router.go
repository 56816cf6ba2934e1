package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/internal/api"
	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/session"
	"github.com/pageza/pantrychef/backend/internal/telemetry"
)

// Dependencies are the collaborators the routes need. Tracker and
// RateLimiter are optional. TrustedProxies empty means client IPs come from
// the peer address only.
type Dependencies struct {
	Logger         *zap.Logger
	Metrics        *telemetry.Metrics
	AllowedOrigin  string
	TrustedProxies []string

	RecipeService       service.IRecipeService
	SubstitutionService service.ISubstitutionService

	Tracker     session.Tracker
	RateLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger, deps.Metrics),
		middleware.Recovery(logger),
		middleware.CORS(deps.AllowedOrigin),
	)

	guard := api.NewSubmissionGuard(deps.Tracker, logger, deps.Metrics)

	var limit []gin.HandlerFunc
	if deps.RateLimiter != nil {
		limit = append(limit, deps.RateLimiter.Middleware())
	}

	api.RegisterRoutes(router,
		api.NewRecipeHandler(deps.RecipeService, guard),
		api.NewSubstitutionHandler(deps.SubstitutionService, guard),
		deps.Metrics.Handler(),
		limit...,
	)

	return router
}
