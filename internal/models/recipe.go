package models

import "fmt"

// Recipe represents an AI-suggested special or staff meal.
// Recipes are generated per request and never stored.
type Recipe struct {
	ID                    string       `json:"id"`
	Title                 string       `json:"title"`
	Type                  RecipeType   `json:"type"`
	IngredientsUsed       []string     `json:"ingredientsUsed"`
	ProfitMarginPotential ProfitMargin `json:"profitMarginPotential"`
	Notes                 string       `json:"notes"`
}

// RecipeType represents the kind of dish being suggested
type RecipeType string

const (
	RecipeTypeDailySpecial RecipeType = "Daily Special"
	RecipeTypeStaffMeal    RecipeType = "Staff Meal"
	RecipeTypeSoupOfDay    RecipeType = "Soup of Day"
)

// RecipeTypes lists every recipe type.
var RecipeTypes = []RecipeType{RecipeTypeDailySpecial, RecipeTypeStaffMeal, RecipeTypeSoupOfDay}

// Valid reports whether t is a known recipe type
func (t RecipeType) Valid() bool {
	switch t {
	case RecipeTypeDailySpecial, RecipeTypeStaffMeal, RecipeTypeSoupOfDay:
		return true
	}
	return false
}

// ParseRecipeType converts a display string into a RecipeType
func ParseRecipeType(s string) (RecipeType, error) {
	t := RecipeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown recipe type: %q", s)
	}
	return t, nil
}

// ProfitMargin represents the estimated profit potential of a recipe
type ProfitMargin string

const (
	ProfitMarginHigh   ProfitMargin = "High"
	ProfitMarginMedium ProfitMargin = "Medium"
	ProfitMarginLow    ProfitMargin = "Low"
)

// ProfitMargins lists every profit margin rating.
var ProfitMargins = []ProfitMargin{ProfitMarginHigh, ProfitMarginMedium, ProfitMarginLow}

// Valid reports whether m is a known profit margin rating
func (m ProfitMargin) Valid() bool {
	switch m {
	case ProfitMarginHigh, ProfitMarginMedium, ProfitMarginLow:
		return true
	}
	return false
}

// ParseProfitMargin converts a display string into a ProfitMargin
func ParseProfitMargin(s string) (ProfitMargin, error) {
	m := ProfitMargin(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown profit margin: %q", s)
	}
	return m, nil
}
