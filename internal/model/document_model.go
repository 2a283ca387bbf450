package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_documents_user_file"`
	FileName    string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_documents_user_file"`
	FileUrl     string         `gorm:"type:text;not null"`
	FileType    string         `gorm:"type:varchar(255);not null"`
	FileSize    int64          `gorm:"not null;default:0"`
	Status      string         `gorm:"type:varchar(32);not null;default:'processing'"`
	DocCategory *string        `gorm:"type:varchar(255);index"`
	ExpiryDate  *time.Time     `gorm:"type:date"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
