package pantry

import (
	"context"
	"fmt"

	"kitchenops/internal/inventory"
	"kitchenops/internal/models"
)

// RecipeGenerator suggests recipes for priority items
type RecipeGenerator interface {
	GenerateRecipes(ctx context.Context, priority []string) ([]models.Recipe, error)
}

// WithRecipeGenerator enables daily specials
func WithRecipeGenerator(g RecipeGenerator) Option {
	return func(p *Pantry) { p.chef = g }
}

// Specials is the daily specials result
type Specials struct {
	PriorityItems []string        `json:"priorityItems"`
	Recipes       []models.Recipe `json:"recipes"`
}

// Specials suggests recipes for items close to expiry. With no such items
// the generator is not called and the result is empty.
func (p *Pantry) Specials(ctx context.Context) (Specials, error) {
	result := Specials{
		PriorityItems: inventory.PriorityLines(p.Snapshot(), p.now()),
		Recipes:       []models.Recipe{},
	}
	if len(result.PriorityItems) == 0 {
		return result, nil
	}
	if p.chef == nil {
		return Specials{}, fmt.Errorf("daily specials: %w", ErrNotConfigured)
	}

	recipes, err := p.chef.GenerateRecipes(ctx, result.PriorityItems)
	if err != nil {
		return Specials{}, err
	}
	for i := range recipes {
		if recipes[i].ID == "" {
			recipes[i].ID = p.newID()
		}
	}
	if recipes != nil {
		result.Recipes = recipes
	}
	return result, nil
}
