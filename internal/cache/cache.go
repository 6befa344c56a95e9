// Package cache holds the key/value stores behind the data gateway.
package cache

import (
	"context"
	"strings"
	"time"
)

// Store is a TTL key/value store. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key joins non-empty parts with ':' after case-folding them.
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ":")
}
