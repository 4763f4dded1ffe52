package model

import "time"

// Recipe is an immutable remote-sourced recipe candidate.
type Recipe struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Ingredients     []string  `json:"ingredients"`
	Categories      []string  `json:"categories"`
	Instructions    string    `json:"instructions,omitempty"`
	PrepTimeMinutes *int      `json:"prepTimeMinutes,omitempty"`
	Difficulty      string    `json:"difficulty,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RecipeRating is one device's rating of a recipe, together with the leftover
// names that were on hand when it was given. At most one row exists per
// (recipe, device) pair; repeat ratings overwrite.
type RecipeRating struct {
	ID            string    `json:"id"`
	RecipeID      string    `json:"recipeId"`
	DeviceID      string    `json:"deviceId"`
	Rating        int       `json:"rating"`
	LeftoverItems []string  `json:"leftoverItems"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RatingStats aggregates all devices' ratings for one recipe.
type RatingStats struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Suggestion is a recipe candidate scored against the current inventory.
// Derived on demand, never persisted.
type Suggestion struct {
	Recipe
	MatchScore         int      `json:"matchScore"`
	MatchedCategories  []string `json:"matchedCategories"`
	MatchedIngredients []string `json:"matchedIngredients"`
	UserRating         *int     `json:"userRating,omitempty"`
	AverageRating      *float64 `json:"averageRating,omitempty"`
	RatingCount        int      `json:"ratingCount,omitempty"`
}
