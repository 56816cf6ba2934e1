package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/session"
	"github.com/pageza/pantrychef/backend/internal/telemetry"
)

const maxSessionIDLength = 128

// SubmissionGuard discards responses that a newer submission from the same
// client session has made stale. A nil tracker disables it.
type SubmissionGuard struct {
	tracker session.Tracker
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewSubmissionGuard creates a guard over tracker
func NewSubmissionGuard(tracker session.Tracker, logger *zap.Logger, metrics *telemetry.Metrics) *SubmissionGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionGuard{tracker: tracker, logger: logger, metrics: metrics}
}

// submission is one tracked request; the zero value is untracked
type submission struct {
	route string
	key   string
	seq   int64
}

// begin registers the request when it carries a session ID
func (g *SubmissionGuard) begin(c *gin.Context, route string) submission {
	if g == nil || g.tracker == nil {
		return submission{}
	}

	sessionID := c.GetHeader(middleware.HeaderSessionID)
	if sessionID == "" || len(sessionID) > maxSessionIDLength {
		return submission{}
	}

	key := route + ":" + sessionID
	seq, err := g.tracker.Begin(c.Request.Context(), key)
	if err != nil {
		g.logger.Warn("submission tracking unavailable",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		return submission{}
	}

	c.Header(middleware.HeaderRequestSequence, strconv.FormatInt(seq, 10))
	return submission{route: route, key: key, seq: seq}
}

// superseded answers 409 and reports true when a newer submission exists
func (g *SubmissionGuard) superseded(c *gin.Context, s submission) bool {
	if s.key == "" {
		return false
	}

	latest, err := g.tracker.IsLatest(c.Request.Context(), s.key, s.seq)
	if err != nil {
		g.logger.Warn("submission check failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		return false
	}
	if latest {
		return false
	}

	g.metrics.RecordSuperseded(s.route)
	c.JSON(http.StatusConflict, SupersededResponse{
		Success:  false,
		Error:    "Superseded",
		Message:  "A newer request from this session replaced this one",
		Sequence: s.seq,
	})
	return true
}
