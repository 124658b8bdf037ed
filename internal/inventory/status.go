// Package inventory derives freshness, stock health and analytics from a
// collection of inventory items. Every function is a pure read over its input.
package inventory

import (
	"math"
	"time"

	"kitchenops/internal/models"
)

// Policy thresholds. The list view and the dashboard deliberately use
// different expiring-soon windows.
const (
	// ListExpiringSoonDays is the upper bound, in days, of the stock list "Expiring Soon" badge.
	ListExpiringSoonDays = 3
	// WasteRiskDays is the upper bound, in days, of the dashboard waste-risk counter.
	WasteRiskDays = 4
	// DefaultMinStockLevel applies when an item carries no reorder threshold.
	DefaultMinStockLevel = 3.0
	// PriorityWindowDays selects items for special suggestions: less time left than this many days.
	PriorityWindowDays = 4
	// TimelineBuckets caps the expiry timeline at this many distinct dates.
	TimelineBuckets = 7
	// CriticalListSize is how many low-stock items the dashboard table shows.
	CriticalListSize = 5
)

const dayLength = 24 * time.Hour

// ExpiryStatus classifies an item's freshness
type ExpiryStatus string

const (
	StatusExpired      ExpiryStatus = "Expired"
	StatusExpiringSoon ExpiryStatus = "Expiring Soon"
	StatusFresh        ExpiryStatus = "Fresh"
)

// DaysUntilExpiry returns the whole days between now and the item's expiry.
// The difference is measured in fractional days and rounded away from zero: an item expiring in
// 30 minutes reports 1, one that expired 30 minutes ago reports -1.
func DaysUntilExpiry(item models.InventoryItem, now time.Time) int {
	diff := float64(item.ExpiryDate.Sub(now)) / float64(dayLength)
	if diff < 0 {
		return int(math.Floor(diff))
	}
	return int(math.Ceil(diff))
}

// Status classifies days remaining for the stock list
func Status(daysLeft int) ExpiryStatus {
	switch {
	case daysLeft < 0:
		return StatusExpired
	case daysLeft <= ListExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusFresh
	}
}

// IsLowStock reports whether the item is at or below its reorder threshold
func IsLowStock(item models.InventoryItem) bool {
	threshold := DefaultMinStockLevel
	if item.MinStockLevel != nil {
		threshold = *item.MinStockLevel
	}
	return item.Quantity <= threshold
}

// IsWasteRisk reports whether the item falls in the dashboard waste-risk window
func IsWasteRisk(item models.InventoryItem, now time.Time) bool {
	days := DaysUntilExpiry(item, now)
	return days >= 0 && days <= WasteRiskDays
}

// IsExpired reports whether the item's expiry instant has passed
func IsExpired(item models.InventoryItem, now time.Time) bool {
	return item.ExpiryDate.Before(now)
}

// Counters holds the dashboard card values
type Counters struct {
	TotalCount        int `json:"totalCount"`
	LowStockCount     int `json:"lowStockCount"`
	ExpiringSoonCount int `json:"expiringSoonCount"`
	ExpiredCount      int `json:"expiredCount"`
}

// DashboardCounters reduces the collection into dashboard counters
func DashboardCounters(items []models.InventoryItem, now time.Time) Counters {
	c := Counters{TotalCount: len(items)}
	for _, item := range items {
		if IsLowStock(item) {
			c.LowStockCount++
		}
		if IsWasteRisk(item, now) {
			c.ExpiringSoonCount++
		}
		if IsExpired(item, now) {
			c.ExpiredCount++
		}
	}
	return c
}

// ItemStatus is an item annotated with its derived state, as rendered in the stock list
type ItemStatus struct {
	models.InventoryItem
	DaysLeft int          `json:"daysLeft"`
	Status   ExpiryStatus `json:"status"`
	LowStock bool         `json:"lowStock"`
}

// Annotate attaches derived status to each item, preserving order
func Annotate(items []models.InventoryItem, now time.Time) []ItemStatus {
	out := make([]ItemStatus, len(items))
	for i, item := range items {
		days := DaysUntilExpiry(item, now)
		out[i] = ItemStatus{
			InventoryItem: item,
			DaysLeft:      days,
			Status:        Status(days),
			LowStock:      IsLowStock(item),
		}
	}
	return out
}

// CriticalLowStock returns up to limit low-stock items in collection order
func CriticalLowStock(items []models.InventoryItem, limit int) []models.InventoryItem {
	out := make([]models.InventoryItem, 0, limit)
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if IsLowStock(item) {
			out = append(out, item)
		}
	}
	return out
}

// PriorityItems returns items close to or past expiry, in collection order.
// The window compares the exact time left, not the rounded day count.
func PriorityItems(items []models.InventoryItem, now time.Time) []models.InventoryItem {
	var out []models.InventoryItem
	for _, item := range items {
		if item.ExpiryDate.Sub(now) < PriorityWindowDays*dayLength {
			out = append(out, item)
		}
	}
	return out
}
