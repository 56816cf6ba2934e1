// Package validation turns raw request bodies into validated queries.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/pantrychef/backend/internal/apperrors"
	"github.com/pageza/pantrychef/backend/internal/model"
	"github.com/pageza/pantrychef/backend/internal/types"
)

var ingredientPattern = regexp.MustCompile(`^[A-Za-z -]+$`)

// Validator checks request bodies and builds immutable queries from them
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom ingredient rules registered
func New() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("ingredient", validateIngredient)
	validate.RegisterValidation("uniquefold", validateUniqueFold)
	validate.RegisterValidation("dietary_filter", validateDietaryFilter)

	return &Validator{validate: validate}
}

// NewIngredientQuery validates a recipe request. Ingredients are trimmed,
// dietary filters are lower-cased and de-duplicated, and servings default
// to model.DefaultServings.
func (v *Validator) NewIngredientQuery(req types.RecipeRequest) (*model.IngredientQuery, error) {
	normalized := types.RecipeRequest{
		Ingredients:    trimAll(req.Ingredients),
		DietaryFilters: dedupe(lowerAll(trimAll(req.DietaryFilters))),
		Servings:       req.Servings,
	}

	if err := v.check(normalized); err != nil {
		return nil, err
	}

	servings := model.DefaultServings
	if normalized.Servings != nil {
		servings = *normalized.Servings
	}

	filters := make([]model.DietaryFilter, 0, len(normalized.DietaryFilters))
	for _, f := range normalized.DietaryFilters {
		filters = append(filters, model.DietaryFilter(f))
	}

	return &model.IngredientQuery{
		Ingredients:    normalized.Ingredients,
		DietaryFilters: filters,
		Servings:       servings,
	}, nil
}

// NewSubstitutionQuery validates a substitution request
func (v *Validator) NewSubstitutionQuery(req types.SubstitutionRequest) (*model.SubstitutionQuery, error) {
	normalized := types.SubstitutionRequest{
		Ingredients:    trimAll(req.Ingredients),
		DietaryFilters: dedupe(trimAll(req.DietaryFilters)),
		RecipeName:     strings.TrimSpace(req.RecipeName),
		RecipeType:     strings.TrimSpace(req.RecipeType),
	}

	if err := v.check(normalized); err != nil {
		return nil, err
	}

	return &model.SubstitutionQuery{
		Ingredients:    normalized.Ingredients,
		DietaryFilters: normalized.DietaryFilters,
		RecipeName:     normalized.RecipeName,
		RecipeType:     normalized.RecipeType,
	}, nil
}

func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewInternalError("request validation could not run", err)
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return apperrors.NewValidationError(fields)
}

func validateIngredient(fl validator.FieldLevel) bool {
	return ingredientPattern.MatchString(fl.Field().String())
}

// validateUniqueFold rejects slices holding the same string twice, ignoring
// case. Empty items are left to the required rule.
func validateUniqueFold(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}

	seen := make(map[string]struct{}, field.Len())
	for i := 0; i < field.Len(); i++ {
		key := strings.ToLower(strings.TrimSpace(field.Index(i).String()))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

func validateDietaryFilter(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, f := range model.DietaryFilters {
		if string(f) == value {
			return true
		}
	}
	return false
}

func trimAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.TrimSpace(item)
	}
	return out
}

func lowerAll(items []string) []string {
	for i, item := range items {
		items[i] = strings.ToLower(item)
	}
	return items
}

func dedupe(items []string) []string {
	if items == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// fieldMessage renders the user-facing message for one failed rule
func fieldMessage(fe validator.FieldError) string {
	field, element := baseField(fe.Field())

	switch fe.Tag() {
	case "min":
		switch field {
		case "ingredients":
			if fe.Param() == "1" {
				return "At least 1 ingredient is required"
			}
			return fmt.Sprintf("At least %s ingredients are required", fe.Param())
		case "servings":
			return fmt.Sprintf("Servings must be at least %s", fe.Param())
		}
	case "max":
		switch {
		case field == "ingredients" && element:
			return fmt.Sprintf("Ingredient name must be %s characters or less", fe.Param())
		case field == "ingredients":
			return fmt.Sprintf("Maximum %s ingredients allowed", fe.Param())
		case field == "dietaryFilters" && element:
			return fmt.Sprintf("Dietary filter must be %s characters or less", fe.Param())
		case field == "dietaryFilters":
			return fmt.Sprintf("Maximum %s dietary filters allowed", fe.Param())
		case field == "servings":
			return fmt.Sprintf("Servings cannot exceed %s", fe.Param())
		case field == "recipeName":
			return fmt.Sprintf("Recipe name must be %s characters or less", fe.Param())
		case field == "recipeType":
			return fmt.Sprintf("Recipe type must be %s characters or less", fe.Param())
		}
	case "required":
		if field == "dietaryFilters" {
			return "Dietary filter cannot be empty"
		}
		return "Ingredient cannot be empty"
	case "uniquefold":
		return "Duplicate ingredients are not allowed"
	case "ingredient":
		return "Ingredient names can only contain letters, spaces, and hyphens"
	case "dietary_filter":
		return fmt.Sprintf("Invalid dietary filter: %v", fe.Value())
	}

	return fmt.Sprintf("%s is invalid", fe.Field())
}

// baseField strips a slice index from a field name, reporting whether one
// was present. "ingredients[3]" yields ("ingredients", true).
func baseField(name string) (string, bool) {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i], true
	}
	return name, false
}
