package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/apperrors"
)

// respondError writes the client-safe shape of err. Only validation errors
// carry details; everything else is reduced to a fixed message.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := apperrors.KindOf(err)
	resp := ErrorResponse{
		Success: false,
		Error:   apperrors.Title(kind),
		Message: apperrors.UserMessage(err),
	}

	if appErr, ok := apperrors.As(err); ok && kind == apperrors.KindValidation {
		for _, f := range appErr.Fields {
			resp.Details = append(resp.Details, ErrorDetail{Field: f.Field, Message: f.Message})
		}
	}

	c.JSON(apperrors.StatusCode(err), resp)
}

// bindError converts a JSON decoding failure into a validation error. A
// field holding the wrong JSON type is named; anything else is reported
// as a malformed body.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewValidationError([]apperrors.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid type for %s: expected %s", typeErr.Field, jsonTypeName(typeErr.Type)),
		}}).WithCause(err)
	}

	return apperrors.NewValidationError([]apperrors.FieldError{
		{Field: "body", Message: "Request body must be valid JSON"},
	}).WithCause(err)
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "a different type"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Ptr:
		return jsonTypeName(t.Elem())
	default:
		return "object"
	}
}
