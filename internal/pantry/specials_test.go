package pantry

import (
	"context"
	"testing"

	"kitchenops/internal/gateway"
	"kitchenops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChef struct {
	mock.Mock
}

func (m *mockChef) GenerateRecipes(ctx context.Context, priority []string) ([]models.Recipe, error) {
	args := m.Called(ctx, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func TestSpecialsUsesPriorityItems(t *testing.T) {
	chef := new(mockChef)
	p, _, _ := newTestPantry(t, WithRecipeGenerator(chef))
	p.Load(context.Background())

	chef.On("GenerateRecipes", mock.Anything, []string{"3 kg Ribeye Loin (Whole)", "8 kg Atlantic Salmon Filets"}).
		Return([]models.Recipe{
			{ID: "r1", Title: "Surf and Turf", Type: models.RecipeTypeDailySpecial},
			{Title: "Salmon Hash", Type: models.RecipeTypeStaffMeal},
		}, nil)

	specials, err := p.Specials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"3 kg Ribeye Loin (Whole)", "8 kg Atlantic Salmon Filets"}, specials.PriorityItems)
	require.Len(t, specials.Recipes, 2)
	assert.Equal(t, "r1", specials.Recipes[0].ID)
	assert.Equal(t, "id-1", specials.Recipes[1].ID)
	chef.AssertExpectations(t)
}

func TestSpecialsWithoutPriorityItemsSkipsGenerator(t *testing.T) {
	chef := new(mockChef)
	p, s, _ := newTestPantry(t, WithRecipeGenerator(chef))
	require.NoError(t, s.MemoryStore.Save(context.Background(), []models.InventoryItem{
		{ID: "x", Name: "Flour", Quantity: 20, Unit: models.UnitKG, ExpiryDate: testNow.Add(200 * day)},
	}))
	p.Load(context.Background())

	specials, err := p.Specials(context.Background())
	require.NoError(t, err)

	assert.Empty(t, specials.PriorityItems)
	assert.NotNil(t, specials.Recipes)
	assert.Empty(t, specials.Recipes)
	chef.AssertNotCalled(t, "GenerateRecipes", mock.Anything, mock.Anything)
}

func TestSpecialsSurfacesGatewayErrors(t *testing.T) {
	chef := new(mockChef)
	p, _, _ := newTestPantry(t, WithRecipeGenerator(chef))
	p.Load(context.Background())

	chef.On("GenerateRecipes", mock.Anything, mock.Anything).Return(nil, gateway.ErrSlotBusy)

	_, err := p.Specials(context.Background())
	assert.ErrorIs(t, err, gateway.ErrSlotBusy)
}

func TestSpecialsEmptyRecipesAreValid(t *testing.T) {
	chef := new(mockChef)
	p, _, _ := newTestPantry(t, WithRecipeGenerator(chef))
	p.Load(context.Background())

	chef.On("GenerateRecipes", mock.Anything, mock.Anything).Return([]models.Recipe{}, nil)

	specials, err := p.Specials(context.Background())
	require.NoError(t, err)
	assert.Empty(t, specials.Recipes)
	assert.NotEmpty(t, specials.PriorityItems)
}

func TestAIOperationsWithoutProvider(t *testing.T) {
	p, s, _ := newTestPantry(t)
	p.Load(context.Background())
	saves := s.saveCount()

	_, err := p.Specials(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = p.Detect(context.Background(), []byte("img"), "image/png")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, saves, s.saveCount())
}
