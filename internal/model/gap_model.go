package model

import (
	"time"

	"github.com/google/uuid"
)

// Gap rows are derived and fully replaced on recomputation, so there
// is no soft delete here.
type Gap struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_gaps_user_doc_type"`
	ChecklistRuleId uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequiredDocType string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_gaps_user_doc_type"`
	Status          string     `gorm:"type:varchar(32);not null"`
	DocId           *uuid.UUID `gorm:"type:uuid"`
	DaysLeft        *int
	ComputedAt      time.Time `gorm:"not null"`
}

func (Gap) TableName() string {
	return "gaps"
}
