package pantry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kitchenops/internal/gateway"
	"kitchenops/internal/inventory"
	"kitchenops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) ([]gateway.Detection, error) {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Detection), args.Error(1)
}

type fakeArchiver struct {
	stored int
	err    error
}

func (a *fakeArchiver) Store(context.Context, []byte, string) (string, error) {
	a.stored++
	return "intake-photos/x.jpg", a.err
}

func TestAddManual(t *testing.T) {
	p, _, _ := newTestPantry(t)
	p.Load(context.Background())
	expiry := testNow.Add(10 * day)

	item, err := p.AddManual(context.Background(), NewItemInput{
		Name:          "  Arborio Rice ",
		Category:      models.CategoryDryStorage,
		Quantity:      5,
		Unit:          models.UnitKG,
		Location:      "Shelf C-01",
		ExpiryDate:    &expiry,
		MinStockLevel: models.Float(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, "Arborio Rice", item.Name)
	assert.Equal(t, testNow, item.AddedDate)
	assert.Equal(t, expiry, item.ExpiryDate)
	assert.Equal(t, "id-1", p.Snapshot()[0].ID)
}

func TestAddManualDefaultsExpiryToAWeek(t *testing.T) {
	p, _, _ := newTestPantry(t)
	p.Load(context.Background())

	item, err := p.AddManual(context.Background(), NewItemInput{
		Name: "Lemons", Category: models.CategoryProduce, Quantity: 0, Unit: models.UnitCase,
	})
	require.NoError(t, err)

	assert.Equal(t, testNow.Add(7*day), item.ExpiryDate)
	assert.Nil(t, item.MinStockLevel)
}

func TestAddManualRejectsInvalidInput(t *testing.T) {
	valid := NewItemInput{Name: "Lemons", Category: models.CategoryProduce, Quantity: 1, Unit: models.UnitCase}

	tests := []struct {
		name   string
		mutate func(*NewItemInput)
	}{
		{"blank name", func(in *NewItemInput) { in.Name = "   " }},
		{"unknown category", func(in *NewItemInput) { in.Category = "Pastry" }},
		{"unknown unit", func(in *NewItemInput) { in.Unit = "Can (#10)" }},
		{"negative quantity", func(in *NewItemInput) { in.Quantity = -1 }},
		{"negative reorder level", func(in *NewItemInput) { in.MinStockLevel = models.Float(-2) }},
		{"long name", func(in *NewItemInput) { in.Name = strings.Repeat("x", 121) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, s, _ := newTestPantry(t)
			p.Load(context.Background())
			in := valid
			tt.mutate(&in)

			_, err := p.AddManual(context.Background(), in)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Len(t, p.Snapshot(), 6)
			assert.Equal(t, 1, s.saveCount())
		})
	}
}

func TestScan(t *testing.T) {
	p, _, _ := newTestPantry(t)
	p.Load(context.Background())

	item, err := p.Scan(context.Background(), "4006381333931")
	require.NoError(t, err)

	assert.Equal(t, "Scanned Item 4006381333931", item.Name)
	assert.Equal(t, models.CategoryDryStorage, item.Category)
	assert.Equal(t, float64(1), item.Quantity)
	assert.Equal(t, models.UnitPack, item.Unit)
	assert.Equal(t, testNow.Add(90*day), item.ExpiryDate)
	assert.Equal(t, item.ID, p.Snapshot()[0].ID)
}

func TestScanWithoutCode(t *testing.T) {
	p, _, _ := newTestPantry(t)
	p.Load(context.Background())

	item, err := p.Scan(context.Background(), "")
	require.NoError(t, err)

	suffix := strings.TrimPrefix(item.Name, "Scanned Item ")
	assert.NotEqual(t, item.Name, suffix)
	assert.Regexp(t, `^\d{1,2}$`, suffix)
}

func TestDetectAddsDetectionsInOneBatch(t *testing.T) {
	analyzer := new(mockAnalyzer)
	archiver := &fakeArchiver{}
	p, s, pub := newTestPantry(t, WithAnalyzer(analyzer), WithArchiver(archiver))
	p.Load(context.Background())

	analyzer.On("AnalyzeImage", mock.Anything, []byte("photo"), "image/jpeg").Return([]gateway.Detection{
		{Name: "Whole Milk 4L", Category: models.CategoryDairy, Quantity: 6, Unit: models.UnitBottle, DaysUntilExpiry: 5},
		{Name: "Frozen Peas", Category: models.CategoryFreezer, Quantity: 3, Unit: models.UnitPack, DaysUntilExpiry: 7},
	}, nil)

	items, err := p.Detect(context.Background(), []byte("photo"), "image/jpeg")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, testNow.Add(5*day), items[0].ExpiryDate)
	assert.Equal(t, testNow, items[1].AddedDate)
	assert.Nil(t, items[1].MinStockLevel)
	assert.Equal(t, []string{"id-1", "id-2"}, itemIDs(p.Snapshot()[:2]))
	assert.Equal(t, 2, s.saveCount())
	assert.Len(t, pub.events, 1)
	assert.Equal(t, 1, archiver.stored)
}

func TestDetectNothingLeavesCollectionUntouched(t *testing.T) {
	analyzer := new(mockAnalyzer)
	p, s, pub := newTestPantry(t, WithAnalyzer(analyzer))
	p.Load(context.Background())
	before := p.Snapshot()

	analyzer.On("AnalyzeImage", mock.Anything, mock.Anything, mock.Anything).Return([]gateway.Detection{}, nil)

	items, err := p.Detect(context.Background(), []byte("photo"), "image/png")

	assert.ErrorIs(t, err, ErrNothingDetected)
	assert.Empty(t, items)
	assert.Equal(t, before, p.Snapshot())
	assert.Equal(t, 1, s.saveCount(), "no persistence write")
	assert.Empty(t, pub.events)
}

func TestDetectGatewayFailureCommitsNothing(t *testing.T) {
	analyzer := new(mockAnalyzer)
	p, s, _ := newTestPantry(t, WithAnalyzer(analyzer), WithArchiver(&fakeArchiver{err: errors.New("denied")}))
	p.Load(context.Background())

	analyzer.On("AnalyzeImage", mock.Anything, mock.Anything, mock.Anything).Return(nil, gateway.ErrGatewayFailure)

	_, err := p.Detect(context.Background(), []byte("photo"), "image/png")

	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	assert.Len(t, p.Snapshot(), 6)
	assert.Equal(t, 1, s.saveCount())
}

func TestDetectWithoutAnalyzer(t *testing.T) {
	p, _, _ := newTestPantry(t)
	p.Load(context.Background())

	_, err := p.Detect(context.Background(), []byte("photo"), "image/png")
	assert.Error(t, err)
}

func TestManualShelfLifeConstants(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, ManualShelfLife)
	assert.Equal(t, 90*24*time.Hour, ScannedShelfLife)
}

func TestDetectedItemsUseDefaultsForShelfLifeAndReorderLevel(t *testing.T) {
	analyzer := new(mockAnalyzer)
	p, _, _ := newTestPantry(t, WithAnalyzer(analyzer))
	p.Load(context.Background())

	analyzer.On("AnalyzeImage", mock.Anything, mock.Anything, mock.Anything).Return([]gateway.Detection{
		{Name: "Whole Milk 4L", Category: models.CategoryDairy, Quantity: 2, Unit: models.UnitBottle, DaysUntilExpiry: 1.5},
	}, nil)

	items, err := p.Detect(context.Background(), []byte("photo"), "image/jpeg")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, testNow.Add(36*time.Hour), items[0].ExpiryDate)
	assert.Nil(t, items[0].MinStockLevel)
	assert.True(t, inventory.IsLowStock(items[0]), "quantity 2 is under the default threshold")
}
