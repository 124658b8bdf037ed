// Package events publishes inventory change events to live dashboards and downstream consumers.
package events

import (
	"context"
	"errors"
	"time"

	"kitchenops/internal/models"
)

// EventType names an inventory mutation
type EventType string

const (
	ItemsAdded   EventType = "items.added"
	ItemsDeleted EventType = "items.deleted"
)

// Event describes one committed inventory mutation
type Event struct {
	Type    EventType              `json:"type"`
	ItemIDs []string               `json:"itemIds"`
	Items   []models.InventoryItem `json:"items,omitempty"`
	At      time.Time              `json:"at"`
	StaffID string                 `json:"staffId,omitempty"`
}

// Publisher delivers events to one destination
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Multi fans events out to several publishers
type Multi []Publisher

// Publish delivers to every publisher and joins their errors
func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
