package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/apperrors"
	"github.com/pageza/pantrychef/backend/internal/telemetry"
)

// Sampling configuration sent with every request
const (
	Temperature     = 0.7
	TopP            = 0.8
	TopK            = 40
	MaxOutputTokens = 8192
)

// LLMService handles interactions with the Gemini API
type LLMService struct {
	apiKey  string
	apiURL  string
	model   string
	client  *http.Client
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// LLMOption configures an LLMService
type LLMOption func(*LLMService)

// WithHTTPClient replaces the default instrumented client
func WithHTTPClient(client *http.Client) LLMOption {
	return func(s *LLMService) {
		s.client = client
	}
}

// WithLLMMetrics records call latency on m
func WithLLMMetrics(m *telemetry.Metrics) LLMOption {
	return func(s *LLMService) {
		s.metrics = m
	}
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg config.LLMConfig, logger *zap.Logger, opts ...LLMOption) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")
	}

	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = config.DefaultGeminiURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &LLMService{
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		model:  model,
		// No client timeout: the request context bounds the call
		client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Part is one piece of message content
type Part struct {
	Text string `json:"text"`
}

// Content is a single conversation turn
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig holds the sampling parameters
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`

	// ResponseMIMEType asks the model for bare JSON instead of prose
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

// GenerateRequest represents a request to the generateContent endpoint
type GenerateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// GenerateResponse represents a generateContent response
type GenerateResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateText sends prompt to the model and returns the raw completion.
// Exactly one request is made; failures are not retried.
func (s *LLMService) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "LLMService.GenerateText",
		trace.WithAttributes(
			attribute.String("llm.model", s.model),
			attribute.Int("llm.prompt_length", len(prompt)),
		))
	defer span.End()

	start := time.Now()
	text, err := s.generate(ctx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		s.metrics.ObserveLLM("error", elapsed)
		s.logger.Error("model call failed",
			zap.String("model", s.model),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return "", apperrors.NewGenerationError(err)
	}

	span.SetAttributes(attribute.Int("llm.completion_length", len(text)))
	s.metrics.ObserveLLM("ok", elapsed)
	s.logger.Debug("model call completed",
		zap.String("model", s.model),
		zap.Duration("duration", elapsed),
		zap.Int("completion_length", len(text)))
	return text, nil
}

func (s *LLMService) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := GenerateRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:      Temperature,
			TopP:             TopP,
			TopK:             TopK,
			MaxOutputTokens:  MaxOutputTokens,
			ResponseMIMEType: "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", s.apiURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API request failed with status %d (%s): %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result GenerateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("empty completion (finish reason %q)", result.Candidates[0].FinishReason)
	}

	return text.String(), nil
}
