package model

// DietaryFilter constrains what the generated recipes may contain
type DietaryFilter string

const (
	Vegetarian DietaryFilter = "vegetarian"
	Vegan      DietaryFilter = "vegan"
	GlutenFree DietaryFilter = "gluten-free"
	DairyFree  DietaryFilter = "dairy-free"
	Keto       DietaryFilter = "keto"
	Paleo      DietaryFilter = "paleo"
)

// DietaryFilters lists every supported filter in display order
var DietaryFilters = []DietaryFilter{Vegetarian, Vegan, GlutenFree, DairyFree, Keto, Paleo}

// DefaultServings is used when a request does not specify a serving count
const DefaultServings = 4

// IngredientQuery is a validated recipe generation request
type IngredientQuery struct {
	Ingredients    []string
	DietaryFilters []DietaryFilter
	Servings       int
}

// SubstitutionQuery is a validated substitution request
type SubstitutionQuery struct {
	Ingredients    []string
	DietaryFilters []string
	RecipeName     string
	RecipeType     string
}
