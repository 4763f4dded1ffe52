package recipe

import (
	"math"
	"strings"

	"fridgekeep/internal/model"
)

// Score rates how well a recipe fits the current inventory, returning an
// integer in [0,100] plus the matched categories and ingredients (lowercased;
// display layers keep original case on the recipe itself).
//
// Categories match exactly against the distinct inventory item categories.
// Ingredients match fuzzily by substring containment in either direction, so
// "milk" matches an item named "oat milk" — and, deliberately, "egg" matches
// "eggplant". Each half contributes up to 50 points.
func Score(recipe model.Recipe, items []model.InventoryItem) (int, []string, []string) {
	itemCategories := make(map[string]struct{})
	itemNames := make([]string, 0, len(items))
	for _, item := range items {
		if item.Category != "" {
			itemCategories[strings.ToLower(item.Category)] = struct{}{}
		}
		if item.Name != "" {
			itemNames = append(itemNames, strings.ToLower(item.Name))
		}
	}

	matchedCategories := []string{}
	for _, category := range recipe.Categories {
		lowered := strings.ToLower(category)
		if _, ok := itemCategories[lowered]; ok {
			matchedCategories = append(matchedCategories, lowered)
		}
	}

	matchedIngredients := []string{}
	for _, ingredient := range recipe.Ingredients {
		lowered := strings.ToLower(ingredient)
		for _, name := range itemNames {
			if strings.Contains(name, lowered) || strings.Contains(lowered, name) {
				matchedIngredients = append(matchedIngredients, lowered)
				break
			}
		}
	}

	categoryScore := float64(len(matchedCategories)) / float64(max(len(recipe.Categories), 1)) * 50
	ingredientScore := float64(len(matchedIngredients)) / float64(max(len(recipe.Ingredients), 1)) * 50
	score := int(math.Round(categoryScore + ingredientScore))

	return score, matchedCategories, matchedIngredients
}
