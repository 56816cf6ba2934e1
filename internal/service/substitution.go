package service

import (
	"context"

	"go.opentelemetry.io/otel/codes"
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

// SubstitutionResult is the outcome of a successful substitution request
type SubstitutionResult struct {
	Substitutions []model.Substitution
	GeneralTips   []string
	Rejected      int
}

// SubstitutionService suggests replacements for ingredients
type SubstitutionService struct {
	validator *validation.Validator
	generator TextGenerator
	mapper    *mapper.Mapper
	logger    *zap.Logger
	metrics   *telemetry.Metrics
}

// NewSubstitutionService creates a new SubstitutionService instance
func NewSubstitutionService(v *validation.Validator, generator TextGenerator, m *mapper.Mapper, logger *zap.Logger, metrics *telemetry.Metrics) *SubstitutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{
		validator: v,
		generator: generator,
		mapper:    m,
		logger:    logger,
		metrics:   metrics,
	}
}

// Suggest returns substitutions for the ingredients in req
func (s *SubstitutionService) Suggest(ctx context.Context, req types.SubstitutionRequest) (*SubstitutionResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "SubstitutionService.Suggest")
	defer span.End()

	result, err := s.suggest(ctx, req)
	s.metrics.RecordOutcome("substitutions", outcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.KindOf(err)))
		return nil, err
	}
	return result, nil
}

func (s *SubstitutionService) suggest(ctx context.Context, req types.SubstitutionRequest) (*SubstitutionResult, error) {
	query, err := s.validator.NewSubstitutionQuery(req)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.GenerateText(ctx, prompt.BuildSubstitutionPrompt(query))
	if err != nil {
		return nil, asGenerationError(err)
	}

	envelope, err := parser.ParseSubstitutions(text)
	if err != nil {
		logRawOutput(s.logger, "substitutions", text, err)
		return nil, err
	}

	subs, rejected := mapper.PartitionSubstitutions(s.mapper.MapSubstitutions(envelope.Substitutions))
	for _, r := range rejected {
		s.logger.Warn("dropping substitution that failed schema validation",
			zap.Int("index", r.Index),
			zap.Any("fields", r.Fields))
	}

	if len(envelope.Substitutions) > 0 && len(subs) == 0 {
		err := apperrors.NewParsingError(apperrors.CodeInvalidSchema, "no substitution in the model output matched the schema", nil)
		logRawOutput(s.logger, "substitutions", text, err)
		return nil, err
	}

	return &SubstitutionResult{
		Substitutions: subs,
		GeneralTips:   envelope.GeneralTips,
		Rejected:      len(rejected),
	}, nil
}
