package dto

import (
	"time"

	"github.com/google/uuid"
)

type GapResponse struct {
	RequiredDocType string     `json:"required_doc_type"`
	Status          string     `json:"status"`
	DocId           *uuid.UUID `json:"doc_id"`
	DaysLeft        *int       `json:"days_left"`
	ComputedAt      time.Time  `json:"computed_at"`
}
