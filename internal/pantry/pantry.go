// Package pantry owns the kitchen's item collection. It is the single writer:
// every mutation is serialized, persisted through the item store and announced
// as an event, while readers receive copies.
package pantry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kitchenops/internal/events"
	"kitchenops/internal/models"
	"kitchenops/internal/store"

	"github.com/google/uuid"
)

// ErrItemNotFound is returned when deleting an unknown item
var ErrItemNotFound = errors.New("item not found")

type staffKey struct{}

// WithStaffID attaches the acting staff member to ctx
func WithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffKey{}, staffID)
}

// StaffID returns the staff member attached to ctx, if any
func StaffID(ctx context.Context) string {
	id, _ := ctx.Value(staffKey{}).(string)
	return id
}

// Pantry holds the inventory collection
type Pantry struct {
	mu    sync.RWMutex
	items []models.InventoryItem

	store     store.Store
	publisher events.Publisher
	analyzer  Analyzer
	archiver  Archiver
	chef      RecipeGenerator
	metrics   MetricsRecorder
	now       func() time.Time
	newID     func() string
}

// MetricsRecorder receives the collection's runtime values for the status endpoint
type MetricsRecorder interface {
	RecordMetric(name string, value interface{})
}

type nopMetrics struct{}

func (nopMetrics) RecordMetric(string, interface{}) {}

// Option configures a Pantry
type Option func(*Pantry)

// WithPublisher announces committed mutations to pub
func WithPublisher(pub events.Publisher) Option {
	return func(p *Pantry) { p.publisher = pub }
}

// WithMetrics reports load and collection size values to r
func WithMetrics(r MetricsRecorder) Option {
	return func(p *Pantry) { p.metrics = r }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Pantry) { p.now = now }
}

// WithIDs replaces the UUID generator
func WithIDs(newID func() string) Option {
	return func(p *Pantry) { p.newID = newID }
}

// New creates an empty pantry backed by s. Call Load before serving.
func New(s store.Store, opts ...Option) *Pantry {
	p := &Pantry{
		store:     s,
		publisher: events.Nop{},
		metrics:   nopMetrics{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Now returns the pantry clock's current time
func (p *Pantry) Now() time.Time {
	return p.now()
}

// Load reads the collection from the store. A read failure or an empty store
// seeds the demo inventory, which is then persisted.
func (p *Pantry) Load(ctx context.Context) {
	items, err := p.store.Load(ctx)
	if err != nil {
		slog.Warn("Failed to load items, using demo inventory", "error", err)
	}

	seeded := err != nil || len(items) == 0
	if seeded {
		items = models.DemoInventory(p.now())
		if err := p.store.Save(ctx, items); err != nil {
			slog.Error("Failed to persist demo inventory", "error", err)
		}
		slog.Info("Seeded demo inventory", "items", len(items))
	} else {
		slog.Info("Loaded inventory", "items", len(items))
	}

	p.mu.Lock()
	p.items = items
	p.mu.Unlock()

	p.metrics.RecordMetric("inventory_seeded", seeded)
	p.metrics.RecordMetric("items_loaded", len(items))
	p.metrics.RecordMetric("items_total", len(items))
}

// Snapshot returns a copy of the collection in its current order
func (p *Pantry) Snapshot() []models.InventoryItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.InventoryItem(nil), p.items...)
}

// Get returns one item by id
func (p *Pantry) Get(id string) (models.InventoryItem, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, item := range p.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

// Add inserts items ahead of the existing collection, newest first.
// Adding nothing is a no-op: no write and no event.
func (p *Pantry) Add(ctx context.Context, items ...models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}

	p.mu.Lock()
	next := make([]models.InventoryItem, 0, len(items)+len(p.items))
	next = append(next, items...)
	next = append(next, p.items...)
	if err := p.store.Save(ctx, next); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("failed to save items: %w", err)
	}
	p.items = next
	p.mu.Unlock()
	p.metrics.RecordMetric("items_total", len(next))

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	p.publish(ctx, events.Event{Type: events.ItemsAdded, ItemIDs: ids, Items: items})
	return nil
}

// Delete removes the item with id and returns it
func (p *Pantry) Delete(ctx context.Context, id string) (models.InventoryItem, error) {
	p.mu.Lock()
	idx := -1
	for i, item := range p.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return models.InventoryItem{}, ErrItemNotFound
	}

	removed := p.items[idx]
	next := make([]models.InventoryItem, 0, len(p.items)-1)
	next = append(next, p.items[:idx]...)
	next = append(next, p.items[idx+1:]...)
	if err := p.store.Save(ctx, next); err != nil {
		p.mu.Unlock()
		return models.InventoryItem{}, fmt.Errorf("failed to save items: %w", err)
	}
	p.items = next
	p.mu.Unlock()
	p.metrics.RecordMetric("items_total", len(next))

	p.publish(ctx, events.Event{Type: events.ItemsDeleted, ItemIDs: []string{id}})
	return removed, nil
}

// publish announces a committed mutation. Failures are logged only.
func (p *Pantry) publish(ctx context.Context, event events.Event) {
	event.At = p.now()
	event.StaffID = StaffID(ctx)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.publisher.Publish(pubCtx, event); err != nil {
		slog.Warn("Failed to publish inventory event", "type", event.Type, "error", err)
	}
}
