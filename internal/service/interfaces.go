package service

import (
	"context"

	"github.com/pageza/pantrychef/backend/internal/types"
)

// TextGenerator sends a prompt to a text model and returns the raw completion
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// IRecipeService defines the recipe generation pipeline
type IRecipeService interface {
	Generate(ctx context.Context, req types.RecipeRequest) (*RecipeResult, error)
}

// ISubstitutionService defines the ingredient substitution pipeline
type ISubstitutionService interface {
	Suggest(ctx context.Context, req types.SubstitutionRequest) (*SubstitutionResult, error)
}
