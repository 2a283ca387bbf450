package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChecklistRule struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Name             string
	Status           string
	RequiredDocTypes []string
	Reason           *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
