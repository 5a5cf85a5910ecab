package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store keeps JSON encoded values under string keys.
type Store interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore creates an in-process store whose entries default to ttl and
// which purges expired items every 2*ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		c: cache.New(ttl, 2*ttl),
	}
}

func (m *MemoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	m.c.Set(key, b, ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	val, found := m.c.Get(key)
	if !found {
		return false, nil
	}
	b, ok := val.([]byte)
	if !ok {
		return false, fmt.Errorf("unexpected cache entry for %s", key)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decoding cache value: %w", err)
	}
	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *MemoryStore) Flush() {
	m.c.Flush()
}
