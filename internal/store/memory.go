package store

import (
	"context"
	"sync"

	"kitchenops/internal/models"
)

// MemoryStore keeps the collection in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	items []models.InventoryItem
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]models.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.InventoryItem(nil), s.items...), nil
}

func (s *MemoryStore) Save(ctx context.Context, items []models.InventoryItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.InventoryItem(nil), items...)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
