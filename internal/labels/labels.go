// Package labels renders QR shelf labels for inventory items.
package labels

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/skip2/go-qrcode"
)

// Prefix is prepended to the item id in every label payload
const Prefix = "kitchenops:item:"

// Payload returns the text encoded in an item's label
func Payload(itemID string) string {
	return Prefix + itemID
}

// Generator renders and caches label PNGs
type Generator struct {
	size  int
	cache *lru.Cache[string, []byte]
}

// NewGenerator creates a generator producing size×size PNGs and caching up to cacheSize of them
func NewGenerator(size, cacheSize int) (*Generator, error) {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create label cache: %w", err)
	}
	return &Generator{size: size, cache: cache}, nil
}

// PNG returns the QR label for itemID
func (g *Generator) PNG(itemID string) ([]byte, error) {
	if png, ok := g.cache.Get(itemID); ok {
		return png, nil
	}

	png, err := qrcode.Encode(Payload(itemID), qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode label for %s: %w", itemID, err)
	}
	g.cache.Add(itemID, png)
	return png, nil
}

// Forget drops a cached label, used when the item is deleted
func (g *Generator) Forget(itemID string) {
	g.cache.Remove(itemID)
}

// Cached returns the number of cached labels
func (g *Generator) Cached() int {
	return g.cache.Len()
}
