package main

import (
	"fmt"
	"strconv"
	"strings"

	"kitchenops/internal/inventory"
	"kitchenops/internal/models"
	"kitchenops/internal/pantry"
)

// intakeKind selects how a line typed on the intake screen is handled
type intakeKind int

const (
	intakeManual intakeKind = iota
	intakeScan
	intakePhoto
)

// intakeAction is one parsed intake command
type intakeAction struct {
	kind intakeKind
	code string
	path string
	item pantry.NewItemInput
}

// parseIntake reads one of:
//
//	scan [code]
//	photo <path>
//	<name>, <category>, <quantity>, <unit>[, <location>[, <min stock>]]
func parseIntake(input string) (intakeAction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return intakeAction{}, fmt.Errorf("please enter item details")
	}

	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "scan":
		return intakeAction{kind: intakeScan, code: strings.Join(fields[1:], " ")}, nil
	case "photo":
		path := strings.TrimSpace(input[len(fields[0]):])
		if path == "" {
			return intakeAction{}, fmt.Errorf("photo needs a file path")
		}
		return intakeAction{kind: intakePhoto, path: path}, nil
	}

	parts := strings.Split(input, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 4 || len(parts) > 6 {
		return intakeAction{}, fmt.Errorf("format: name, category, quantity, unit[, location[, min stock]]")
	}

	category, ok := matchCategory(parts[1])
	if !ok {
		return intakeAction{}, fmt.Errorf("unknown category %q", parts[1])
	}
	qty, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || qty < 0 {
		return intakeAction{}, fmt.Errorf("invalid quantity %q", parts[2])
	}
	unit, ok := matchUnit(parts[3])
	if !ok {
		return intakeAction{}, fmt.Errorf("unknown unit %q", parts[3])
	}

	item := pantry.NewItemInput{Name: parts[0], Category: category, Quantity: qty, Unit: unit}
	if len(parts) > 4 {
		item.Location = parts[4]
	}
	if len(parts) > 5 {
		level, err := strconv.ParseFloat(parts[5], 64)
		if err != nil || level < 0 {
			return intakeAction{}, fmt.Errorf("invalid min stock %q", parts[5])
		}
		item.MinStockLevel = models.Float(level)
	}
	return intakeAction{kind: intakeManual, item: item}, nil
}

func matchCategory(s string) (models.Category, bool) {
	for _, c := range models.Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func matchUnit(s string) (models.Unit, bool) {
	for _, u := range models.Units {
		if strings.EqualFold(string(u), s) {
			return u, true
		}
	}
	return "", false
}

// categoryFilters is the stock list category cycle
func categoryFilters() []string {
	out := []string{inventory.AllCategories}
	for _, c := range models.Categories {
		out = append(out, string(c))
	}
	return out
}

var sortCycle = []inventory.SortKey{inventory.SortByExpiry, inventory.SortByName, inventory.SortByAdded}

func nextSort(current inventory.SortKey) inventory.SortKey {
	for i, k := range sortCycle {
		if k == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return inventory.SortByExpiry
}
