package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"kitchenops/internal/models"
)

// defaultShelfLifeDays applies when the model gives no usable shelf life
const defaultShelfLifeDays = 7

// looseFloat accepts JSON numbers and numeric strings
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*f = looseFloat(v)
	return nil
}

type rawDetection struct {
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Quantity        looseFloat `json:"quantity"`
	Unit            string     `json:"unit"`
	DaysUntilExpiry looseFloat `json:"daysUntilExpiry"`
}

type rawRecipe struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Type                  string   `json:"type"`
	IngredientsUsed       []string `json:"ingredientsUsed"`
	ProfitMarginPotential string   `json:"profitMarginPotential"`
	Notes                 string   `json:"notes"`
}

// stripFences removes a markdown code fence around a JSON payload
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// decodeList decodes either a bare JSON array or an object wrapping the array under key
func decodeList[T any](text, key string) ([]T, error) {
	data := []byte(stripFences(text))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var list []T
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse JSON array: %w", err)
		}
		return list, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	inner, ok := wrapped[key]
	if !ok {
		return nil, fmt.Errorf("response has no %q list", key)
	}
	var list []T
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil, fmt.Errorf("failed to parse %q list: %w", key, err)
	}
	return list, nil
}

// MapCategory maps free-form model output onto a category
func MapCategory(s string) models.Category {
	if c, err := models.ParseCategory(strings.TrimSpace(s)); err == nil {
		return c
	}

	c := strings.ToLower(s)
	switch {
	case containsAny(c, "meat", "fish", "sea"):
		return models.CategoryMeatSeafood
	case containsAny(c, "dry", "pantry", "grain"):
		return models.CategoryDryStorage
	case containsAny(c, "cold", "fridge"):
		return models.CategoryColdRoom
	case containsAny(c, "freeze", "frozen"):
		return models.CategoryFreezer
	case containsAny(c, "produce", "veg", "fruit"):
		return models.CategoryProduce
	case containsAny(c, "dairy", "egg", "milk"):
		return models.CategoryDairy
	case containsAny(c, "alcohol", "bar", "wine"):
		return models.CategoryAlcohol
	default:
		return models.CategorySupplies
	}
}

// MapUnit maps free-form model output onto a unit
func MapUnit(s string) models.Unit {
	if u, err := models.ParseUnit(strings.TrimSpace(s)); err == nil {
		return u
	}

	u := strings.ToLower(strings.TrimSpace(s))
	switch {
	case containsAny(u, "case", "box", "crate"):
		return models.UnitCase
	case containsAny(u, "kg", "kilo"):
		return models.UnitKG
	case containsAny(u, "bottle"):
		return models.UnitBottle
	case containsAny(u, "can", "tin"):
		return models.UnitCan
	case containsAny(u, "pack", "bag"):
		return models.UnitPack
	case hasWord(u, "l", "ltr", "liter", "litre", "liters", "litres"):
		return models.UnitLiter
	default:
		return models.UnitUnit
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasWord(s string, words ...string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

func (r rawDetection) detection() Detection {
	days := float64(r.DaysUntilExpiry)
	if days == 0 {
		days = defaultShelfLifeDays
	}
	qty := float64(r.Quantity)
	if qty < 0 {
		qty = 0
	}
	return Detection{
		Name:            strings.TrimSpace(r.Name),
		Category:        MapCategory(r.Category),
		Quantity:        qty,
		Unit:            MapUnit(r.Unit),
		DaysUntilExpiry: days,
	}
}

func (r rawRecipe) recipe() models.Recipe {
	recipeType, err := models.ParseRecipeType(r.Type)
	if err != nil {
		recipeType = models.RecipeTypeDailySpecial
	}
	margin, err := models.ParseProfitMargin(r.ProfitMarginPotential)
	if err != nil {
		margin = models.ProfitMarginMedium
	}
	ingredients := r.IngredientsUsed
	if ingredients == nil {
		ingredients = []string{}
	}
	return models.Recipe{
		ID:                    r.ID,
		Title:                 r.Title,
		Type:                  recipeType,
		IngredientsUsed:       ingredients,
		ProfitMarginPotential: margin,
		Notes:                 r.Notes,
	}
}
