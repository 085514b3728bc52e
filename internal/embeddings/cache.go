package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// CachingClient wraps a Client with a content-addressed in-process cache.
// The cache key is a stable hash of the text, so equal strings always map to the
// same entry; entries are never invalidated (same text implies same embedding).
// Singleflight coalesces concurrent misses for the same key: a burst of N
// identical lookups triggers one provider call, the rest share its result.
type CachingClient struct {
	inner Client
	cache *lru.Cache[string, []float32]
	group singleflight.Group
}

var _ Client = (*CachingClient)(nil)

// NewCachingClient creates a caching decorator over inner with room for maxEntries vectors.
func NewCachingClient(inner Client, maxEntries int) (*CachingClient, error) {
	cache, err := lru.New[string, []float32](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &CachingClient{inner: inner, cache: cache}, nil
}

// CreateEmbedding returns the cached vector for text, computing it via the
// inner client on miss. Provider failures are not cached.
func (c *CachingClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := contentKey(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	val, err, _ := c.group.Do(key, func() (any, error) {
		vec, loadErr := c.inner.CreateEmbedding(ctx, text)
		if loadErr != nil {
			return nil, loadErr
		}

		c.cache.Add(key, vec)

		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	return val.([]float32), nil
}

// Len returns the number of cached vectors.
func (c *CachingClient) Len() int {
	return c.cache.Len()
}

// contentKey returns the stable cache key for a text string.
func contentKey(text string) string {
	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:])
}
