// Package prompt renders the instructions sent to the text model.
//
// Builders are pure: the same input always yields the same prompt, so
// fixtures stay stable regardless of what the model returns.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pageza/pantrychef/backend/internal/model"
)

// RecipeCount is the number of recipe variants requested per prompt
const RecipeCount = 3

// UtilizationTarget is the share of the user's ingredients each recipe should use
const UtilizationTarget = 80

// RecipeShape is the literal JSON example embedded in recipe prompts. The
// mapper schema accepts it, so the two cannot drift apart unnoticed.
//
//go:embed recipe_shape.json
var RecipeShape string

// SubstitutionShape is the literal JSON example embedded in substitution prompts
//
//go:embed substitution_shape.json
var SubstitutionShape string

// BuildRecipePrompt renders the recipe generation prompt
func BuildRecipePrompt(ingredients []string, filters []model.DietaryFilter, servings int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create %d diverse recipes that primarily use these ingredients: %s.\n", RecipeCount, strings.Join(ingredients, ", "))
	fmt.Fprintf(&b, "At least %d%% of the listed ingredients should be used in each recipe. Common pantry staples such as salt, pepper, oil and water may be added.\n", UtilizationTarget)
	fmt.Fprintf(&b, "Each recipe must serve %d people.\n", servings)

	if len(filters) > 0 {
		names := make([]string, len(filters))
		for i, f := range filters {
			names[i] = string(f)
		}
		fmt.Fprintf(&b, "Every recipe must comply with these dietary requirements: %s.\n", strings.Join(names, ", "))
	}

	b.WriteString("Vary the cuisine, cooking method and difficulty between recipes.\n\n")
	b.WriteString("Respond with JSON in exactly this format:\n")
	b.WriteString(RecipeShape)
	b.WriteString("\n")
	b.WriteString("difficulty must be one of Easy, Medium or Hard. servings and calories must be numbers.\n")
	b.WriteString("Return ONLY the JSON object. Do not include any text, explanation or markdown outside the JSON.")

	return b.String()
}

// BuildSubstitutionPrompt renders the ingredient substitution prompt
func BuildSubstitutionPrompt(q *model.SubstitutionQuery) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Suggest substitutions for these ingredients: %s.\n", strings.Join(q.Ingredients, ", "))

	switch {
	case q.RecipeName != "" && q.RecipeType != "":
		fmt.Fprintf(&b, "They are used in %q, a %s recipe.\n", q.RecipeName, q.RecipeType)
	case q.RecipeName != "":
		fmt.Fprintf(&b, "They are used in %q.\n", q.RecipeName)
	case q.RecipeType != "":
		fmt.Fprintf(&b, "They are used in a %s recipe.\n", q.RecipeType)
	}

	if len(q.DietaryFilters) > 0 {
		fmt.Fprintf(&b, "Every substitute must comply with these dietary requirements: %s.\n", strings.Join(q.DietaryFilters, ", "))
	}

	b.WriteString("Give 2 to 4 alternatives per ingredient with a usage ratio, notes on how the result changes, availability (common or specialty) and dietary tags.\n\n")
	b.WriteString("Respond with JSON in exactly this format:\n")
	b.WriteString(SubstitutionShape)
	b.WriteString("\n")
	b.WriteString("Return ONLY the JSON object. Do not include any text, explanation or markdown outside the JSON.")

	return b.String()
}
