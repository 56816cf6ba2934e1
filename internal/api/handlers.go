package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/middleware"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PantryChef API is running",
		"version": "v1.0.0",
	})
}

// Options answers a bare OPTIONS request on a generation route. Browser
// preflights are answered earlier by the CORS middleware.
func Options(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, "+middleware.HeaderSessionID)
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers all API routes. limit guards the generation
// endpoints and may be empty.
func RegisterRoutes(router *gin.Engine, recipes *RecipeHandler, substitutions *SubstitutionHandler, metrics http.Handler, limit ...gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	recipes.RegisterRoutes(router, limit...)
	substitutions.RegisterRoutes(router, limit...)
}
