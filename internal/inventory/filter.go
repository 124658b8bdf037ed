package inventory

import (
	"fmt"
	"sort"
	"strings"

	"kitchenops/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories is the category filter value that keeps every item
const AllCategories = "All"

// SortKey selects the ordering of the stock list
type SortKey string

const (
	SortByExpiry SortKey = "expiry"
	SortByName   SortKey = "name"
	SortByAdded  SortKey = "added"
)

// ParseSortKey converts a query value into a SortKey. Empty selects expiry order.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByExpiry, nil
	case SortByExpiry, SortByName, SortByAdded:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key: %q", s)
}

// Query describes a stock list view
type Query struct {
	Search   string  `form:"search" json:"search"`
	Category string  `form:"category" json:"category"`
	Sort     SortKey `form:"sort" json:"sort"`
}

// View filters and orders items for display. The input slice is never modified.
func View(items []models.InventoryItem, q Query) []models.InventoryItem {
	search := strings.ToLower(q.Search)

	out := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if q.Category != "" && q.Category != AllCategories && string(item.Category) != q.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		out = append(out, item)
	}

	switch q.Sort {
	case SortByName:
		// collate.Collator is not safe for concurrent use
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortByAdded:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AddedDate.After(out[j].AddedDate)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate)
		})
	}

	return out
}
