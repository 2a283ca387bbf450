package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProcessDocumentRequest struct {
	FileUrl  string `json:"fileUrl" validate:"required,url"`
	FileName string `json:"fileName" validate:"required,min=1,max=255"`
	FileType string `json:"fileType" validate:"required,min=1"`
	FileSize int64  `json:"fileSize" validate:"omitempty,gt=0"`
}

type ProcessDocumentResponse struct {
	DocumentId uuid.UUID `json:"documentId"`
}

type DocumentResponse struct {
	Id          uuid.UUID  `json:"id"`
	FileName    string     `json:"file_name"`
	FileUrl     string     `json:"file_url"`
	FileType    string     `json:"file_type"`
	FileSize    int64      `json:"file_size"`
	Status      string     `json:"status"`
	DocCategory *string    `json:"doc_category"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
