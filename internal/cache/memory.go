package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

var _ Store = &MemoryStore{}

// MemoryStore is an in-process Store backed by go-cache.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore starts a janitor only for a positive cleanupInterval.
// Otherwise entries expire lazily when read.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}

	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.items.Set(key, stored, ttl)
	return nil
}

// Len returns the number of unexpired entries.
func (s *MemoryStore) Len() int {
	return len(s.items.Items())
}

func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
