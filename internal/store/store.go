// Package store persists the inventory collection behind a load/save key-value interface.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"kitchenops/internal/config"
	"kitchenops/internal/models"
)

// Store loads and saves the whole item collection.
// Save replaces the stored collection; Load returns it in saved order.
type Store interface {
	Load(ctx context.Context) ([]models.InventoryItem, error)
	Save(ctx context.Context, items []models.InventoryItem) error
	Close() error
}

// Open creates the store selected by cfg.Driver
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "postgres":
		s, err = NewSQLStore(cfg.Driver, cfg.DSN)
	case "redis":
		s, err = NewRedisStore(ctx, cfg.RedisURL, cfg.Key)
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Item store ready", "driver", cfg.Driver)
	return s, nil
}
