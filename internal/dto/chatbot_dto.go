package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatRequest struct {
	SessionId uuid.UUID `json:"sessionId" validate:"required"`
	Question  string    `json:"question" validate:"required,min=1"`
}

type SendChatResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
	Answer    string    `json:"answer"`
}

type DeleteSessionRequest struct {
	SessionId uuid.UUID `json:"sessionId" validate:"required"`
}
