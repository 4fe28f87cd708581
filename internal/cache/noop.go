// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"time"
)

// NoOp is a cache that stores nothing; every Get is a miss.
type NoOp struct{}

// NewNoOp creates a no-op cache.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (NoOp) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (NoOp) Set(context.Context, string, string, time.Duration) error { return nil }

func (NoOp) Close() error { return nil }
