package inventory

import (
	"testing"
	"time"

	"kitchenops/internal/models"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func expiringIn(d time.Duration) models.InventoryItem {
	return models.InventoryItem{
		ID:         "x",
		Name:       "Test Item",
		Category:   models.CategoryDryStorage,
		Quantity:   10,
		Unit:       models.UnitKG,
		AddedDate:  testNow.Add(-24 * time.Hour),
		ExpiryDate: testNow.Add(d),
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want int
	}{
		{"exactly now", 0, 0},
		{"thirty minutes ahead", 30 * time.Minute, 1},
		{"one day ahead", 24 * time.Hour, 1},
		{"just over two days", 48*time.Hour + time.Minute, 3},
		{"thirty minutes ago", -30 * time.Minute, -1},
		{"one nanosecond ago", -time.Nanosecond, -1},
		{"three days ago", -72 * time.Hour, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilExpiry(expiringIn(tt.in), testNow))
		})
	}
}

func TestExpiredItemsAreNegativeAndExpired(t *testing.T) {
	for _, d := range []time.Duration{-time.Millisecond, -time.Hour, -25 * time.Hour, -400 * 24 * time.Hour} {
		item := expiringIn(d)
		days := DaysUntilExpiry(item, testNow)

		assert.Less(t, days, 0, "offset %s", d)
		assert.Equal(t, StatusExpired, Status(days), "offset %s", d)
		assert.True(t, IsExpired(item, testNow), "offset %s", d)
		assert.False(t, IsWasteRisk(item, testNow), "offset %s", d)
	}
}

func TestStatusThresholds(t *testing.T) {
	for days := 0; days <= ListExpiringSoonDays; days++ {
		assert.Equal(t, StatusExpiringSoon, Status(days), "day %d", days)
	}
	assert.Equal(t, StatusFresh, Status(4))
	assert.Equal(t, StatusExpired, Status(-1))

	// Day 4 is fresh in the list but still a dashboard waste risk
	item := expiringIn(4 * 24 * time.Hour)
	assert.Equal(t, StatusFresh, Status(DaysUntilExpiry(item, testNow)))
	assert.True(t, IsWasteRisk(item, testNow))
	assert.False(t, IsWasteRisk(expiringIn(5*24*time.Hour), testNow))
}

func TestIsLowStock(t *testing.T) {
	item := expiringIn(time.Hour)

	item.Quantity = 3
	assert.True(t, IsLowStock(item), "default threshold is inclusive")
	item.Quantity = 3.01
	assert.False(t, IsLowStock(item))

	item.MinStockLevel = models.Float(10)
	item.Quantity = 10
	assert.True(t, IsLowStock(item))
	item.Quantity = 11
	assert.False(t, IsLowStock(item))

	item.MinStockLevel = models.Float(0)
	item.Quantity = 1
	assert.False(t, IsLowStock(item), "explicit zero threshold overrides the default")
	item.Quantity = 0
	assert.True(t, IsLowStock(item))
}

func TestRibeyeScenario(t *testing.T) {
	item := models.InventoryItem{
		ID:            "3",
		Name:          "Ribeye Loin (Whole)",
		Category:      models.CategoryMeatSeafood,
		Quantity:      3,
		Unit:          models.UnitKG,
		AddedDate:     testNow.Add(-5 * 24 * time.Hour),
		ExpiryDate:    testNow.Add(2 * 24 * time.Hour),
		MinStockLevel: models.Float(5),
	}

	days := DaysUntilExpiry(item, testNow)
	assert.True(t, IsLowStock(item))
	assert.Equal(t, 2, days)
	assert.Equal(t, StatusExpiringSoon, Status(days))

	counters := DashboardCounters([]models.InventoryItem{item}, testNow)
	assert.Equal(t, Counters{TotalCount: 1, LowStockCount: 1, ExpiringSoonCount: 1}, counters)
}

func TestDashboardCountersOnSeed(t *testing.T) {
	seed := models.DemoInventory(testNow)

	counters := DashboardCounters(seed, testNow)

	assert.Equal(t, 6, counters.TotalCount)
	assert.Equal(t, 3, counters.LowStockCount)
	assert.Equal(t, 3, counters.ExpiringSoonCount)
	assert.Equal(t, 0, counters.ExpiredCount)
}

func TestAnnotate(t *testing.T) {
	items := []models.InventoryItem{expiringIn(-time.Hour), expiringIn(2 * 24 * time.Hour), expiringIn(30 * 24 * time.Hour)}
	items[1].Quantity = 1

	annotated := Annotate(items, testNow)

	assert.Len(t, annotated, 3)
	assert.Equal(t, StatusExpired, annotated[0].Status)
	assert.Equal(t, -1, annotated[0].DaysLeft)
	assert.Equal(t, StatusExpiringSoon, annotated[1].Status)
	assert.True(t, annotated[1].LowStock)
	assert.Equal(t, StatusFresh, annotated[2].Status)
	assert.False(t, annotated[2].LowStock)
}

func TestCriticalLowStock(t *testing.T) {
	var items []models.InventoryItem
	for i := 0; i < 8; i++ {
		item := expiringIn(time.Duration(i+1) * 24 * time.Hour)
		item.ID = string(rune('a' + i))
		if i%4 != 3 {
			item.Quantity = 1
		}
		items = append(items, item)
	}

	critical := CriticalLowStock(items, CriticalListSize)

	assert.Len(t, critical, CriticalListSize)
	ids := make([]string, len(critical))
	for i, item := range critical {
		ids[i] = item.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "e", "f"}, ids)
	assert.Empty(t, CriticalLowStock(nil, CriticalListSize))
}

func TestPriorityWindowUsesExactTimeLeft(t *testing.T) {
	item := expiringIn(3*24*time.Hour + 12*time.Hour)

	assert.Equal(t, 4, DaysUntilExpiry(item, testNow))
	assert.True(t, IsWasteRisk(item, testNow))
	assert.Len(t, PriorityItems([]models.InventoryItem{item}, testNow), 1)

	assert.Empty(t, PriorityItems([]models.InventoryItem{expiringIn(4 * 24 * time.Hour)}, testNow))
	assert.Len(t, PriorityItems([]models.InventoryItem{expiringIn(4*24*time.Hour - time.Nanosecond)}, testNow), 1)
}

func TestPriorityItems(t *testing.T) {
	seed := models.DemoInventory(testNow)
	expired := expiringIn(-48 * time.Hour)
	expired.ID = "old"
	items := append(seed, expired)

	priority := PriorityItems(items, testNow)

	ids := make([]string, len(priority))
	for i, item := range priority {
		ids[i] = item.ID
	}
	// Cream at 4 days is excluded, the expired item is included
	assert.Equal(t, []string{"3", "5", "old"}, ids)
}
