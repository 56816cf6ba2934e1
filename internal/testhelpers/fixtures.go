// Package testhelpers holds canned model completions shared by tests
package testhelpers

import (
	"encoding/json"
	"fmt"
)

// Recipe returns a recipe object that satisfies the recipe schema
func Recipe(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": fmt.Sprintf("%s made from pantry staples", name),
		"cuisine":     "Fusion",
		"prepTime":    "10 minutes",
		"cookTime":    "20 minutes",
		"totalTime":   "30 minutes",
		"difficulty":  "Medium",
		"servings":    4,
		"ingredients": []interface{}{
			map[string]interface{}{"name": "chicken", "amount": "400g"},
			map[string]interface{}{"name": "rice", "amount": "1.5 cups", "notes": "rinsed"},
		},
		"instructions": []interface{}{"Prepare the rice", "Sear the chicken", "Serve together"},
		"nutrition": map[string]interface{}{
			"calories": 510,
			"protein":  "35g",
			"carbs":    "52g",
			"fat":      "14g",
			"fiber":    "3g",
			"sugar":    "2g",
		},
		"substitutions": map[string]interface{}{"rice": "quinoa"},
		"tags":          []interface{}{"dinner"},
	}
}

// RecipesCompletion renders a completion holding the given recipe objects
func RecipesCompletion(recipes ...map[string]interface{}) string {
	if recipes == nil {
		recipes = []map[string]interface{}{}
	}
	data, err := json.Marshal(map[string]interface{}{"recipes": recipes})
	if err != nil {
		panic(err)
	}
	return string(data)
}

// ThreeRecipes is a completion with three valid recipes
func ThreeRecipes() string {
	return RecipesCompletion(Recipe("Chicken Fried Rice"), Recipe("Arroz con Pollo"), Recipe("Chicken Biryani"))
}

// Fenced wraps text in a Markdown json code fence
func Fenced(text string) string {
	return "```json\n" + text + "\n```"
}

// SubstitutionsCompletion is a completion with one valid substitution
func SubstitutionsCompletion() string {
	return `{
  "substitutions": [
    {
      "original": "butter",
      "alternatives": [
        {"substitute": "coconut oil", "ratio": "1:1", "notes": "Adds a faint coconut flavor", "availability": "common", "dietaryTags": ["vegan", "dairy-free"]},
        {"substitute": "ghee", "ratio": "1:1", "notes": "Nuttier taste", "availability": "specialty", "dietaryTags": []}
      ]
    }
  ],
  "generalTips": ["Chill the dough longer when using oil"]
}`
}
