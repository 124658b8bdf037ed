package models

import (
	"fmt"
	"time"
)

// InventoryItem represents one stocked product in the kitchen inventory
type InventoryItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Quantity      float64   `json:"quantity"`
	Unit          Unit      `json:"unit"`
	Location      string    `json:"location,omitempty"`
	AddedDate     time.Time `json:"addedDate"`
	ExpiryDate    time.Time `json:"expiryDate"`
	MinStockLevel *float64  `json:"minStockLevel,omitempty"`
}

// Category represents the storage category of an inventory item
type Category string

const (
	// Inventory categories
	CategoryDryStorage  Category = "Dry Storage"
	CategoryColdRoom    Category = "Cold Room"
	CategoryFreezer     Category = "Freezer"
	CategoryMeatSeafood Category = "Meat & Seafood"
	CategoryProduce     Category = "Produce"
	CategoryDairy       Category = "Dairy & Eggs"
	CategoryAlcohol     Category = "Alcohol & Bar"
	CategorySupplies    Category = "Cleaning & Supplies"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryDryStorage,
	CategoryColdRoom,
	CategoryFreezer,
	CategoryMeatSeafood,
	CategoryProduce,
	CategoryDairy,
	CategoryAlcohol,
	CategorySupplies,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryDryStorage, CategoryColdRoom, CategoryFreezer, CategoryMeatSeafood,
		CategoryProduce, CategoryDairy, CategoryAlcohol, CategorySupplies:
		return true
	}
	return false
}

// ParseCategory converts a display string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// Unit represents the unit of measurement for an inventory item
type Unit string

const (
	// Commercial units
	UnitCase   Unit = "Case"
	UnitKG     Unit = "kg"
	UnitLiter  Unit = "L"
	UnitBottle Unit = "Bottle"
	UnitCan    Unit = "Can"
	UnitPack   Unit = "Pack"
	UnitUnit   Unit = "Unit"
)

// Units lists every unit in display order.
var Units = []Unit{UnitCase, UnitKG, UnitLiter, UnitBottle, UnitCan, UnitPack, UnitUnit}

// Valid reports whether u is one of the known units
func (u Unit) Valid() bool {
	switch u {
	case UnitCase, UnitKG, UnitLiter, UnitBottle, UnitCan, UnitPack, UnitUnit:
		return true
	}
	return false
}

// ParseUnit converts a display string into a Unit
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if !u.Valid() {
		return "", fmt.Errorf("unknown unit: %q", s)
	}
	return u, nil
}

// Float returns a pointer to v, for optional fields such as MinStockLevel
func Float(v float64) *float64 {
	return &v
}
