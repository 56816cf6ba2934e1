package model

// Difficulty is the model-reported effort level of a recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Recipe is a single generated dish. It is built by the mapper from model
// output and never modified afterwards.
type Recipe struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Cuisine       string            `json:"cuisine"`
	PrepTime      string            `json:"prepTime"`
	CookTime      string            `json:"cookTime"`
	TotalTime     string            `json:"totalTime"`
	Difficulty    Difficulty        `json:"difficulty"`
	Servings      int               `json:"servings"`
	Ingredients   []Ingredient      `json:"ingredients"`
	Instructions  []string          `json:"instructions"`
	Nutrition     NutritionInfo     `json:"nutrition"`
	Substitutions map[string]string `json:"substitutions"`
	Tags          []string          `json:"tags"`
	Tips          string            `json:"tips,omitempty"`
	ImageURL      string            `json:"imageUrl,omitempty"`
}

// Ingredient is one line of a recipe's ingredient list. Amount is free text
// ("2 cups", "a pinch").
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Notes  string `json:"notes,omitempty"`
}
