package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kitchenops/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the collection as one JSON document under a single key
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the Redis server at url
func NewRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opts.Addr, "key", key)
	return &RedisStore{client: client, key: key}, nil
}

// Load returns the stored items. A missing key is an empty collection.
func (s *RedisStore) Load(ctx context.Context) ([]models.InventoryItem, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	var items []models.InventoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	return items, nil
}

// Save overwrites the stored collection
func (s *RedisStore) Save(ctx context.Context, items []models.InventoryItem) error {
	if items == nil {
		items = []models.InventoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
