package models

import "time"

const day = 24 * time.Hour

// DemoInventory returns the representative dataset used when the store is empty.
// Dates are relative to now.
func DemoInventory(now time.Time) []InventoryItem {
	item := func(id, name string, cat Category, qty float64, unit Unit, loc string, addedAgo, expiresIn int, minLevel float64) InventoryItem {
		return InventoryItem{
			ID:            id,
			Name:          name,
			Category:      cat,
			Quantity:      qty,
			Unit:          unit,
			Location:      loc,
			AddedDate:     now.Add(-time.Duration(addedAgo) * day),
			ExpiryDate:    now.Add(time.Duration(expiresIn) * day),
			MinStockLevel: Float(minLevel),
		}
	}

	return []InventoryItem{
		item("1", "Basmati Rice (Royal)", CategoryDryStorage, 12, UnitKG, "Shelf B-04", 10, 180, 20),
		item("2", "Heavy Cream 35%", CategoryDairy, 4, UnitLiter, "Walk-in Fridge 1", 2, 4, 6),
		item("3", "Ribeye Loin (Whole)", CategoryMeatSeafood, 3, UnitKG, "Meat Locker", 5, 2, 5),
		item("4", "San Marzano Tomatoes", CategoryDryStorage, 18, UnitCan, "Shelf A-02", 20, 365, 12),
		item("5", "Atlantic Salmon Filets", CategoryColdRoom, 8, UnitKG, "Fish Fridge", 1, 2, 5),
		item("6", "Grey Goose Vodka", CategoryAlcohol, 14, UnitBottle, "Bar Storage", 60, 700, 10),
	}
}
