package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChecklistRule struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name             string         `gorm:"type:varchar(255);not null"`
	Status           string         `gorm:"type:varchar(32);not null;default:'active'"`
	RequiredDocTypes datatypes.JSON `gorm:"type:jsonb;not null"` // JSON array of category labels
	Reason           *string        `gorm:"type:text"`           // set for AI-suggested rules
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (ChecklistRule) TableName() string {
	return "checklist_rules"
}
