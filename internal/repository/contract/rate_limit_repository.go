package contract

import (
	"context"

	"github.com/google/uuid"
)

// RateLimitRepository keeps the DB mirror of the Redis counters.
// The limiter itself is authoritative; this exists for observability.
type RateLimitRepository interface {
	RecordRequest(ctx context.Context, userId uuid.UUID) error
}
