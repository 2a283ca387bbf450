package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type codes published on the bus.
const (
	TypeDocumentProcessed = "DOCUMENT_PROCESSED"
	TypeDocumentDeleted   = "DOCUMENT_DELETED"
	TypeGapsRecomputed    = "GAPS_RECOMPUTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_PROCESSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentProcessed marks the end of a successful ingestion run.
func NewDocumentProcessed(userId uuid.UUID, documentId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeDocumentProcessed,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"document_id": documentId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentDeleted(userId uuid.UUID, documentId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"document_id": documentId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewGapsRecomputed(userId uuid.UUID, gapCount int) Event {
	return BaseEvent{
		Type: TypeGapsRecomputed,
		Data: map[string]interface{}{
			"user_id":   userId.String(),
			"gap_count": gapCount,
		},
		OccurredAt: time.Now(),
	}
}
