package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is the unit of embedding and retrieval. Chunks are
// immutable; a re-upload replaces the whole set for its document.
type DocumentChunk struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	UserId         uuid.UUID
	ChunkIndex     int
	Content        string
	EmbeddingValue []float32
	CreatedAt      time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
