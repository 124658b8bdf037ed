package inventory

import (
	"testing"
	"time"

	"kitchenops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTallyCoversEveryCategory(t *testing.T) {
	tally := CategoryTally(nil)

	require.Len(t, tally, len(models.Categories))
	for i, c := range tally {
		assert.Equal(t, models.Categories[i], c.Category)
		assert.Zero(t, c.Count)
	}
}

func TestCategoryDistributionOnSeed(t *testing.T) {
	seed := models.DemoInventory(testNow)

	dist := CategoryDistribution(seed)

	assert.Len(t, dist, 5)
	total := 0
	for _, c := range dist {
		assert.Positive(t, c.Count)
		total += c.Count
	}
	assert.Equal(t, 6, total)
	assert.Equal(t, CategoryCount{Category: models.CategoryDryStorage, Count: 2}, dist[0])
	assert.Contains(t, dist, CategoryCount{Category: models.CategoryColdRoom, Count: 1})
	assert.Contains(t, dist, CategoryCount{Category: models.CategoryMeatSeafood, Count: 1})
}

func TestCategoryDistributionEmpty(t *testing.T) {
	dist := CategoryDistribution(nil)

	assert.NotNil(t, dist)
	assert.Empty(t, dist)
}

func TestExpiryTimelineTruncates(t *testing.T) {
	var items []models.InventoryItem
	for i := 9; i >= 0; i-- {
		items = append(items, expiringIn(time.Duration(i)*24*time.Hour))
	}
	items = append(items, expiringIn(time.Hour))

	timeline := ExpiryTimeline(items)

	require.Len(t, timeline, TimelineBuckets)
	assert.Equal(t, "2026-03-10", timeline[0].Date)
	assert.Equal(t, 2, timeline[0].Count)
	assert.Equal(t, "2026-03-16", timeline[6].Date)
	for i := 1; i < len(timeline); i++ {
		assert.Less(t, timeline[i-1].Date, timeline[i].Date)
	}
}

func TestExpiryTimelineUsesUTCDate(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*60*60)
	item := models.InventoryItem{ExpiryDate: time.Date(2026, time.March, 11, 5, 0, 0, 0, zone)}

	timeline := ExpiryTimeline([]models.InventoryItem{item})

	require.Len(t, timeline, 1)
	assert.Equal(t, "2026-03-10", timeline[0].Date)
}

func TestBuildReport(t *testing.T) {
	seed := models.DemoInventory(testNow)

	report := BuildReport(seed, testNow)

	assert.Equal(t, DashboardCounters(seed, testNow), report.Counters)
	assert.Len(t, report.CategoryDistribution, 5)
	// Ribeye and salmon share a date
	assert.Len(t, report.ExpiryTimeline, 5)
}

func TestBuildDashboard(t *testing.T) {
	seed := models.DemoInventory(testNow)

	dash := BuildDashboard(seed, testNow)

	assert.Equal(t, 3, dash.Counters.LowStockCount)
	assert.Equal(t, []string{"1", "2", "3"}, ids(dash.CriticalLowStock))
}

func TestPriorityLines(t *testing.T) {
	seed := models.DemoInventory(testNow)

	lines := PriorityLines(seed, testNow)

	assert.Equal(t, []string{"3 kg Ribeye Loin (Whole)", "8 kg Atlantic Salmon Filets"}, lines)
	assert.Equal(t, "1.5 L Heavy Cream 35%", FormatPriority(models.InventoryItem{Quantity: 1.5, Unit: models.UnitLiter, Name: "Heavy Cream 35%"}))
}
