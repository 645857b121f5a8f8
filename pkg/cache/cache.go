// Package cache defines the byte-cache abstraction used by the request
// client. The production implementation is the SQLite-backed store.
package cache

import (
	"context"
)

// Cacher defines the caching interface.
type Cacher interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}

// Null is a Cacher that never hits. Used when caching is disabled.
type Null struct{}

func (Null) GetCache(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (Null) SetCache(ctx context.Context, key string, val []byte) error { return nil }
