package ratelimit

import (
	"context"
	"time"
)

const (
	// DefaultLimit is how many ingestion requests a user may start per
	// window.
	DefaultLimit = 100
	// DefaultWindow is the fixed rate-limit window.
	DefaultWindow = 24 * time.Hour
)

// Limiter enforces a per-key fixed-window request budget. Allow must
// check and increment atomically so concurrent requests from the same
// user never undercount.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
