package embedding

import "context"

// Dimension is the vector width every provider must produce.
const Dimension = 768

// Embedding task types. Chunks are indexed as documents, questions are
// embedded as queries.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the interface for generating text embeddings.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}
