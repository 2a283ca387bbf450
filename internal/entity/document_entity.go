package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	FileName    string
	FileUrl     string
	FileType    string
	FileSize    int64
	Status      string
	DocCategory *string
	ExpiryDate  *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
