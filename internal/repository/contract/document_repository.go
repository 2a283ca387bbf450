package contract

import (
	"context"

	"gapguard-be/internal/entity"
	"gapguard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	// Upsert inserts the document or, when (user_id, file_name) already
	// exists, refreshes its metadata and resets status. The stored row
	// (with its id) is written back into the entity.
	Upsert(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
