package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/types"
)

type SubstitutionHandler struct {
	substitutionService service.ISubstitutionService
	guard               *SubmissionGuard
}

func NewSubstitutionHandler(substitutionService service.ISubstitutionService, guard *SubmissionGuard) *SubstitutionHandler {
	return &SubstitutionHandler{
		substitutionService: substitutionService,
		guard:               guard,
	}
}

func (h *SubstitutionHandler) RegisterRoutes(router gin.IRouter, limit ...gin.HandlerFunc) {
	router.OPTIONS("/substitutions", Options)
	router.POST("/substitutions", append(limit, h.SuggestSubstitutions)...)
}

func (h *SubstitutionHandler) SuggestSubstitutions(c *gin.Context) {
	start := time.Now()

	var req types.SubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	sub := h.guard.begin(c, "substitutions")
	result, err := h.substitutionService.Suggest(c.Request.Context(), req)
	if h.guard.superseded(c, sub) {
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubstitutionsResponse{
		Success:        true,
		Substitutions:  result.Substitutions,
		GeneralTips:    result.GeneralTips,
		ProcessingTime: time.Since(start).Milliseconds(),
	})
}
