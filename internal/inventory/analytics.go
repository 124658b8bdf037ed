package inventory

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"kitchenops/internal/models"
)

// timelineLayout is the calendar-date key of the expiry timeline
const timelineLayout = "2006-01-02"

// CategoryCount is the number of items in one category
type CategoryCount struct {
	Category models.Category `json:"name"`
	Count    int             `json:"value"`
}

// TimelinePoint is the number of items expiring on one calendar date
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Report is the chart-ready analytics view
type Report struct {
	Counters             Counters        `json:"counters"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
	ExpiryTimeline       []TimelinePoint `json:"expiryTimeline"`
}

// Dashboard is the Kitchen Ops overview
type Dashboard struct {
	Counters         Counters               `json:"counters"`
	CriticalLowStock []models.InventoryItem `json:"criticalLowStock"`
}

// CategoryTally counts items for every category, in display order, including zeros
func CategoryTally(items []models.InventoryItem) []CategoryCount {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, item := range items {
		counts[item.Category]++
	}

	tally := make([]CategoryCount, len(models.Categories))
	for i, cat := range models.Categories {
		tally[i] = CategoryCount{Category: cat, Count: counts[cat]}
	}
	return tally
}

// CategoryDistribution is CategoryTally without empty categories
func CategoryDistribution(items []models.InventoryItem) []CategoryCount {
	var out []CategoryCount
	for _, c := range CategoryTally(items) {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	if out == nil {
		out = []CategoryCount{}
	}
	return out
}

// ExpiryTimeline buckets items by the UTC calendar date of their expiry.
// Dates ascend and only the first TimelineBuckets dates are returned.
func ExpiryTimeline(items []models.InventoryItem) []TimelinePoint {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.ExpiryDate.UTC().Format(timelineLayout)]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	// The layout sorts lexically in date order
	sort.Strings(dates)
	if len(dates) > TimelineBuckets {
		dates = dates[:TimelineBuckets]
	}

	points := make([]TimelinePoint, len(dates))
	for i, d := range dates {
		points[i] = TimelinePoint{Date: d, Count: counts[d]}
	}
	return points
}

// BuildReport composes the reports section
func BuildReport(items []models.InventoryItem, now time.Time) Report {
	return Report{
		Counters:             DashboardCounters(items, now),
		CategoryDistribution: CategoryDistribution(items),
		ExpiryTimeline:       ExpiryTimeline(items),
	}
}

// BuildDashboard composes the Kitchen Ops overview
func BuildDashboard(items []models.InventoryItem, now time.Time) Dashboard {
	return Dashboard{
		Counters:         DashboardCounters(items, now),
		CriticalLowStock: CriticalLowStock(items, CriticalListSize),
	}
}

// FormatPriority renders an item for the specials prompt as "<quantity> <unit> <name>"
func FormatPriority(item models.InventoryItem) string {
	return fmt.Sprintf("%s %s %s", strconv.FormatFloat(item.Quantity, 'f', -1, 64), item.Unit, item.Name)
}

// PriorityLines renders the priority items of a collection for the specials prompt
func PriorityLines(items []models.InventoryItem, now time.Time) []string {
	priority := PriorityItems(items, now)
	lines := make([]string, len(priority))
	for i, item := range priority {
		lines[i] = FormatPriority(item)
	}
	return lines
}
