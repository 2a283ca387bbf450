package contract

import (
	"context"

	"gapguard-be/internal/entity"
	"gapguard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GapRepository interface {
	// Upsert replaces the gap row keyed by (user_id, required_doc_type).
	// Re-running an evaluation never accumulates rows.
	Upsert(ctx context.Context, gap *entity.Gap) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Gap, error)
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
}
