// Package apperrors provides the typed errors returned by the recipe pipeline.
// Every failure that leaves a service is an *AppError with a stable code, so
// the HTTP layer can pick a status and a user-facing message without looking
// at the underlying cause.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	CodeInvalidJSON      ErrorCode = "INVALID_JSON"
	CodeInvalidFormat    ErrorCode = "INVALID_FORMAT"
	CodeInvalidSchema    ErrorCode = "INVALID_SCHEMA"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Kind groups error codes into the categories clients care about
type Kind string

const (
	KindValidation Kind = "validation"
	KindGeneration Kind = "generation"
	KindParsing    Kind = "parsing"
	KindUnknown    Kind = "unknown"
)

// FieldError is a single field-level validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application error with structured information
type AppError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
	Cause   error        `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Kind reports which category the error code belongs to
func (e *AppError) Kind() Kind {
	switch e.Code {
	case CodeValidationFailed:
		return KindValidation
	case CodeGenerationFailed:
		return KindGeneration
	case CodeInvalidJSON, CodeInvalidFormat, CodeInvalidSchema:
		return KindParsing
	default:
		return KindUnknown
	}
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	if e.Kind() == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails attaches internal diagnostic text. Details are logged, never
// sent to clients.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError creates a validation error. The first field error becomes
// the error message.
func NewValidationError(fields []FieldError) *AppError {
	message := "Validation failed"
	if len(fields) > 0 {
		message = fields[0].Message
	}
	return &AppError{Code: CodeValidationFailed, Message: message, Fields: fields}
}

// NewGenerationError wraps a model provider failure
func NewGenerationError(cause error) *AppError {
	return &AppError{Code: CodeGenerationFailed, Message: "model generation failed", Cause: cause}
}

// NewParsingError reports model output that could not be turned into results
func NewParsingError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Cause: cause}
}

// As extracts an *AppError from err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindUnknown for foreign errors
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind()
	}
	return KindUnknown
}

// Title returns the short error label used in the response "error" field
func Title(kind Kind) string {
	switch kind {
	case KindValidation:
		return "Validation Error"
	case KindGeneration:
		return "Generation Error"
	case KindParsing:
		return "Parsing Error"
	default:
		return "Internal Server Error"
	}
}

// UserMessage maps err to the text shown to end users. Provider and parser
// internals never appear in it.
func UserMessage(err error) string {
	appErr, ok := As(err)
	if !ok {
		return "An unexpected error occurred"
	}
	switch appErr.Kind() {
	case KindValidation:
		return appErr.Message
	case KindGeneration:
		return "Failed to generate recipes. Please try again later."
	case KindParsing:
		return "Failed to produce recipes from the AI response. Please try again."
	default:
		return "An unexpected error occurred"
	}
}

// StatusCode returns the HTTP status for any error
func StatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}
