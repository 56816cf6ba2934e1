package api

import "github.com/pageza/pantrychef/backend/internal/model"

// RecipesResponse is the success body of POST /recipes
type RecipesResponse struct {
	Success        bool           `json:"success"`
	Recipes        []model.Recipe `json:"recipes"`
	TotalCount     int            `json:"totalCount"`
	ProcessingTime int64          `json:"processingTime"`
}

// SubstitutionsResponse is the success body of POST /substitutions
type SubstitutionsResponse struct {
	Success        bool                 `json:"success"`
	Substitutions  []model.Substitution `json:"substitutions"`
	GeneralTips    []string             `json:"generalTips"`
	ProcessingTime int64                `json:"processingTime"`
}

// ErrorDetail names one invalid request field
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// SupersededResponse replaces a result that a newer submission made stale
type SupersededResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Message  string `json:"message"`
	Sequence int64  `json:"sequence"`
}
