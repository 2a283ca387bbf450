package dto

import "github.com/google/uuid"

// PublishDocumentProcessedMessage is the payload sent on the internal
// bus after an ingestion run flips a document to valid.
type PublishDocumentProcessedMessage struct {
	UserId     uuid.UUID `json:"user_id"`
	DocumentId uuid.UUID `json:"document_id"`
}
