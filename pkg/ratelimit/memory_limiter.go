package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter is the single-instance fallback used when Redis is not
// configured. Counters expire with the cache entry.
type MemoryLimiter struct {
	mu     sync.Mutex
	cache  *gocache.Cache
	limit  int64
	window time.Duration
}

func NewMemoryLimiter(limit int64, window time.Duration) Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLimiter{
		cache:  gocache.New(window, 10*time.Minute),
		limit:  limit,
		window: window,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, found := l.cache.Get(key); !found {
		l.cache.Set(key, int64(0), l.window)
	}
	count, err := l.cache.IncrementInt64(key, 1)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}
