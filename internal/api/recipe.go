package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	guard         *SubmissionGuard
}

func NewRecipeHandler(recipeService service.IRecipeService, guard *SubmissionGuard) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		guard:         guard,
	}
}

// RegisterRoutes mounts the handler; limit runs before generation only
func (h *RecipeHandler) RegisterRoutes(router gin.IRouter, limit ...gin.HandlerFunc) {
	router.OPTIONS("/recipes", Options)
	router.POST("/recipes", append(limit, h.GenerateRecipes)...)
}

func (h *RecipeHandler) GenerateRecipes(c *gin.Context) {
	start := time.Now()

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	sub := h.guard.begin(c, "recipes")
	result, err := h.recipeService.Generate(c.Request.Context(), req)
	if h.guard.superseded(c, sub) {
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecipesResponse{
		Success:        true,
		Recipes:        result.Recipes,
		TotalCount:     len(result.Recipes),
		ProcessingTime: time.Since(start).Milliseconds(),
	})
}
