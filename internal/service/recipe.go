package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/internal/apperrors"
	"github.com/pageza/pantrychef/backend/internal/mapper"
	"github.com/pageza/pantrychef/backend/internal/model"
	"github.com/pageza/pantrychef/backend/internal/parser"
	"github.com/pageza/pantrychef/backend/internal/prompt"
	"github.com/pageza/pantrychef/backend/internal/telemetry"
	"github.com/pageza/pantrychef/backend/internal/types"
	"github.com/pageza/pantrychef/backend/internal/validation"
)

// RecipeResult is the outcome of a successful generation
type RecipeResult struct {
	Recipes []model.Recipe
	// Rejected counts model items dropped for failing the recipe schema
	Rejected int
}

// RecipeService runs validate, prompt, generate, parse and map for one request
type RecipeService struct {
	validator *validation.Validator
	generator TextGenerator
	mapper    *mapper.Mapper
	logger    *zap.Logger
	metrics   *telemetry.Metrics
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(v *validation.Validator, generator TextGenerator, m *mapper.Mapper, logger *zap.Logger, metrics *telemetry.Metrics) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{
		validator: v,
		generator: generator,
		mapper:    m,
		logger:    logger,
		metrics:   metrics,
	}
}

// Generate produces recipes for req. Invalid input fails before the model is
// called. Items that fail the schema are dropped; if the model returned items
// and none survive, the call fails with a parsing error.
func (s *RecipeService) Generate(ctx context.Context, req types.RecipeRequest) (*RecipeResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "RecipeService.Generate")
	defer span.End()

	result, err := s.generate(ctx, req)
	s.metrics.RecordOutcome("recipes", outcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.KindOf(err)))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("recipes.count", len(result.Recipes)),
		attribute.Int("recipes.rejected", result.Rejected),
	)
	return result, nil
}

func (s *RecipeService) generate(ctx context.Context, req types.RecipeRequest) (*RecipeResult, error) {
	query, err := s.validator.NewIngredientQuery(req)
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("query.ingredients", len(query.Ingredients)),
		attribute.Int("query.servings", query.Servings),
	)

	text, err := s.generator.GenerateText(ctx, prompt.BuildRecipePrompt(query.Ingredients, query.DietaryFilters, query.Servings))
	if err != nil {
		return nil, asGenerationError(err)
	}

	items, err := parser.ParseRecipes(text)
	if err != nil {
		logRawOutput(s.logger, "recipes", text, err)
		return nil, err
	}

	recipes, rejected := mapper.PartitionRecipes(s.mapper.MapRecipes(items))
	for _, r := range rejected {
		s.logger.Warn("dropping recipe that failed schema validation",
			zap.Int("index", r.Index),
			zap.Any("fields", r.Fields))
	}

	if len(items) > 0 && len(recipes) == 0 {
		err := apperrors.NewParsingError(apperrors.CodeInvalidSchema, "no recipe in the model output matched the schema", nil)
		logRawOutput(s.logger, "recipes", text, err)
		return nil, err
	}

	return &RecipeResult{Recipes: recipes, Rejected: len(rejected)}, nil
}

// asGenerationError keeps typed errors and wraps anything else as a
// generation failure
func asGenerationError(err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.NewGenerationError(err)
}

// logRawOutput records unusable model output for diagnosis. It is never
// returned to clients.
func logRawOutput(logger *zap.Logger, pipeline, text string, err error) {
	logger.Error("model output could not be used",
		zap.String("pipeline", pipeline),
		zap.String("raw_output", text),
		zap.Error(err))
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(apperrors.KindOf(err))
}
