package types

// RecipeRequest represents the request body for recipe generation
type RecipeRequest struct {
	Ingredients    []string `json:"ingredients" validate:"min=2,max=15,uniquefold,dive,required,max=50,ingredient"`
	DietaryFilters []string `json:"dietaryFilters" validate:"omitempty,dive,dietary_filter"`
	Servings       *int     `json:"servings" validate:"omitempty,min=1,max=12"`
}

// SubstitutionRequest represents the request body for ingredient substitutions
type SubstitutionRequest struct {
	Ingredients    []string `json:"ingredients" validate:"min=1,max=15,uniquefold,dive,required,max=50,ingredient"`
	DietaryFilters []string `json:"dietaryFilters" validate:"omitempty,max=10,dive,required,max=50"`
	RecipeName     string   `json:"recipeName" validate:"omitempty,max=100"`
	RecipeType     string   `json:"recipeType" validate:"omitempty,max=50"`
}
