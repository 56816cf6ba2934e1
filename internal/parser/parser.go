// Package parser extracts result arrays from raw model completions.
//
// Only the envelope is checked here: the text must be a JSON object holding an
// array under the expected key. Per-item structure is the mapper's concern.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pageza/pantrychef/backend/internal/apperrors"
)

const (
	RecipesField       = "recipes"
	SubstitutionsField = "substitutions"
	GeneralTipsField   = "generalTips"
)

var (
	leadingFence  = regexp.MustCompile("^```[ \t]*[A-Za-z0-9_-]*")
	trailingFence = regexp.MustCompile("```$")
)

// SubstitutionEnvelope is the parsed top level of a substitution completion
type SubstitutionEnvelope struct {
	Substitutions []json.RawMessage
	GeneralTips   []string
}

// StripCodeFences removes a surrounding Markdown code fence, with or without
// a language tag, and trims whitespace. Unfenced text is only trimmed.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseRecipes returns the items of the "recipes" array. An empty array is a
// valid result.
func ParseRecipes(text string) ([]json.RawMessage, error) {
	obj, err := parseObject(text)
	if err != nil {
		return nil, err
	}
	return arrayField(obj, RecipesField)
}

// ParseSubstitutions returns the "substitutions" array and any general tips.
// Tips are optional; a missing or malformed tips field yields an empty list.
func ParseSubstitutions(text string) (*SubstitutionEnvelope, error) {
	obj, err := parseObject(text)
	if err != nil {
		return nil, err
	}

	items, err := arrayField(obj, SubstitutionsField)
	if err != nil {
		return nil, err
	}

	tips := []string{}
	if raw, ok := obj[GeneralTipsField]; ok {
		var parsed []string
		if err := json.Unmarshal(raw, &parsed); err == nil && parsed != nil {
			tips = parsed
		}
	}

	return &SubstitutionEnvelope{Substitutions: items, GeneralTips: tips}, nil
}

func parseObject(text string) (map[string]json.RawMessage, error) {
	cleaned := []byte(StripCodeFences(text))

	if !json.Valid(cleaned) {
		var decoded interface{}
		err := json.Unmarshal(cleaned, &decoded)
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidJSON, "model output is not valid JSON", err)
	}

	if !bytes.HasPrefix(cleaned, []byte("{")) {
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidFormat, "model output is not a JSON object", nil)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(cleaned, &obj); err != nil {
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidFormat, "model output is not a JSON object", err)
	}
	return obj, nil
}

func arrayField(obj map[string]json.RawMessage, field string) ([]json.RawMessage, error) {
	raw, ok := obj[field]
	if !ok {
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidFormat, fmt.Sprintf("model output has no %q field", field), nil)
	}

	raw = bytes.TrimSpace(raw)
	if !bytes.HasPrefix(raw, []byte("[")) {
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidFormat, fmt.Sprintf("%q field is not an array", field), nil)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidFormat, fmt.Sprintf("%q field is not an array", field), err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}
