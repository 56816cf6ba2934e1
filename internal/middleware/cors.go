package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Header names shared with the handlers
const (
	HeaderRequestID       = "X-Request-ID"
	HeaderSessionID       = "X-Session-ID"
	HeaderRequestSequence = "X-Request-Sequence"
)

// CORS middleware to handle cross-origin requests. An empty allowedOrigin
// accepts any origin.
func CORS(allowedOrigin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", HeaderSessionID, HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestSequence, HeaderRequestID},
		MaxAge:        24 * time.Hour,
	}
	if allowedOrigin == "" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{allowedOrigin}
	}
	return cors.New(cfg)
}
