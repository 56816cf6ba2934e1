package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/backend/internal/apperrors"
	"github.com/pageza/pantrychef/backend/internal/model"
	"github.com/pageza/pantrychef/backend/internal/types"
)

func intPtr(v int) *int { return &v }

func requireValidationMessage(t *testing.T, err error, message string) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected *AppError, got %T", err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind())
	assert.Equal(t, message, appErr.Message)
	return appErr
}

func TestNewIngredientQuery(t *testing.T) {
	v := New()

	t.Run("should accept a minimal request and default servings", func(t *testing.T) {
		q, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", "rice"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"chicken", "rice"}, q.Ingredients)
		assert.Empty(t, q.DietaryFilters)
		assert.Equal(t, 4, q.Servings)
	})

	t.Run("should trim ingredients and keep their order", func(t *testing.T) {
		q, err := v.NewIngredientQuery(types.RecipeRequest{
			Ingredients: []string{"  sweet potato ", "black-eyed peas", "kale"},
			Servings:    intPtr(2),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"sweet potato", "black-eyed peas", "kale"}, q.Ingredients)
		assert.Equal(t, 2, q.Servings)
	})

	t.Run("should accept fifteen ingredients", func(t *testing.T) {
		items := make([]string, 15)
		for i := range items {
			items[i] = "item " + strings.Repeat("a", i+1)
		}
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: items})
		assert.NoError(t, err)
	})

	t.Run("should collapse duplicate dietary filters", func(t *testing.T) {
		q, err := v.NewIngredientQuery(types.RecipeRequest{
			Ingredients:    []string{"tofu", "broccoli"},
			DietaryFilters: []string{"vegan", "Vegan", " gluten-free "},
		})
		require.NoError(t, err)
		assert.Equal(t, []model.DietaryFilter{model.Vegan, model.GlutenFree}, q.DietaryFilters)
	})

	t.Run("should reject an empty ingredient list", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{}})
		appErr := requireValidationMessage(t, err, "At least 2 ingredients are required")
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, "ingredients", appErr.Fields[0].Field)
	})

	t.Run("should reject a missing ingredient list", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{})
		requireValidationMessage(t, err, "At least 2 ingredients are required")
	})

	t.Run("should reject a single ingredient", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"egg"}})
		requireValidationMessage(t, err, "At least 2 ingredients are required")
	})

	t.Run("should reject sixteen ingredients", func(t *testing.T) {
		items := make([]string, 16)
		for i := range items {
			items[i] = "item " + strings.Repeat("b", i+1)
		}
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: items})
		requireValidationMessage(t, err, "Maximum 15 ingredients allowed")
	})

	t.Run("should reject case-insensitive duplicates", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"Chicken", "rice", "chicken "}})
		requireValidationMessage(t, err, "Duplicate ingredients are not allowed")
	})

	t.Run("should reject characters outside the allow-list", func(t *testing.T) {
		for _, bad := range []string{"r1ce", "salt & pepper", "eggs;", "crème", "green\tbeans", "sour\ncream"} {
			_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", bad}})
			appErr := requireValidationMessage(t, err, "Ingredient names can only contain letters, spaces, and hyphens")
			assert.Equal(t, "ingredients[1]", appErr.Fields[0].Field)
		}
	})

	t.Run("should reject blank ingredients", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", "   "}})
		requireValidationMessage(t, err, "Ingredient cannot be empty")
	})

	t.Run("should reject ingredients over fifty characters", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", strings.Repeat("a", 51)}})
		requireValidationMessage(t, err, "Ingredient name must be 50 characters or less")

		_, err = v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", strings.Repeat("a", 50)}})
		assert.NoError(t, err)
	})

	t.Run("should reject unknown dietary filters", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{
			Ingredients:    []string{"chicken", "rice"},
			DietaryFilters: []string{"vegan", "halal"},
		})
		requireValidationMessage(t, err, "Invalid dietary filter: halal")
	})

	t.Run("should enforce servings bounds", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", "rice"}, Servings: intPtr(0)})
		requireValidationMessage(t, err, "Servings must be at least 1")

		_, err = v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", "rice"}, Servings: intPtr(13)})
		requireValidationMessage(t, err, "Servings cannot exceed 12")

		for _, n := range []int{1, 12} {
			q, err := v.NewIngredientQuery(types.RecipeRequest{Ingredients: []string{"chicken", "rice"}, Servings: intPtr(n)})
			require.NoError(t, err)
			assert.Equal(t, n, q.Servings)
		}
	})

	t.Run("should name the first offending field and list all of them", func(t *testing.T) {
		_, err := v.NewIngredientQuery(types.RecipeRequest{
			Ingredients: []string{"chicken"},
			Servings:    intPtr(20),
		})
		appErr := requireValidationMessage(t, err, "At least 2 ingredients are required")
		require.Len(t, appErr.Fields, 2)
		assert.Equal(t, "servings", appErr.Fields[1].Field)
		assert.Equal(t, "Servings cannot exceed 12", appErr.Fields[1].Message)
	})

	t.Run("should not mutate the caller's request", func(t *testing.T) {
		req := types.RecipeRequest{
			Ingredients:    []string{" chicken ", "rice"},
			DietaryFilters: []string{"VEGAN"},
		}
		_, err := v.NewIngredientQuery(req)
		require.NoError(t, err)
		assert.Equal(t, " chicken ", req.Ingredients[0])
		assert.Equal(t, "VEGAN", req.DietaryFilters[0])
	})
}

func TestNewSubstitutionQuery(t *testing.T) {
	v := New()

	t.Run("should accept a single ingredient with context", func(t *testing.T) {
		q, err := v.NewSubstitutionQuery(types.SubstitutionRequest{
			Ingredients:    []string{" butter "},
			DietaryFilters: []string{"dairy-free", "low sodium"},
			RecipeName:     " Shortbread ",
			RecipeType:     "dessert",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"butter"}, q.Ingredients)
		assert.Equal(t, []string{"dairy-free", "low sodium"}, q.DietaryFilters)
		assert.Equal(t, "Shortbread", q.RecipeName)
		assert.Equal(t, "dessert", q.RecipeType)
	})

	t.Run("should require at least one ingredient", func(t *testing.T) {
		_, err := v.NewSubstitutionQuery(types.SubstitutionRequest{})
		requireValidationMessage(t, err, "At least 1 ingredient is required")
	})

	t.Run("should reject long recipe names", func(t *testing.T) {
		_, err := v.NewSubstitutionQuery(types.SubstitutionRequest{
			Ingredients: []string{"butter"},
			RecipeName:  strings.Repeat("x", 101),
		})
		requireValidationMessage(t, err, "Recipe name must be 100 characters or less")
	})
}
