package entity

import (
	"time"

	"github.com/google/uuid"
)

// Gap is derived state: one row per (user, required doc type),
// replaced wholesale on every evaluation.
type Gap struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	ChecklistRuleId uuid.UUID
	RequiredDocType string
	Status          string
	DocId           *uuid.UUID
	DaysLeft        *int
	ComputedAt      time.Time
}
