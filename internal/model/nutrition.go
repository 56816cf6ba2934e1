package model

// NutritionInfo represents per-serving nutrition for a recipe.
// Everything except Calories carries its unit inline, e.g. "25g".
type NutritionInfo struct {
	Calories float64 `json:"calories"`
	Protein  string  `json:"protein"`
	Carbs    string  `json:"carbs"`
	Fat      string  `json:"fat"`
	Fiber    string  `json:"fiber"`
	Sugar    string  `json:"sugar"`
}
