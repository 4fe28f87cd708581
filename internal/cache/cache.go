// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores cleaned page text keyed by a hash of the request so
// reruns of the AI cleanup stage do not pay for pages already processed.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// Cache provides page result caching.
type Cache interface {
	// Get returns the cached value for key. A miss is ("", false, nil).
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. A zero ttl keeps the entry forever.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases the underlying connection.
	Close() error
}

// Key derives a stable cache key from its parts.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// New builds the cache selected by cfg.
func New(ctx context.Context, cfg types.CacheConfig) (Cache, error) {
	switch cfg.Provider {
	case "", "none":
		return NewNoOp(), nil
	case "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown cache provider %q", cfg.Provider)
	}
}
