package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRuleRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=255"`
	RequiredDocTypes []string `json:"required_doc_types" validate:"required,min=1,dive,min=1"`
}

type UpdateRuleRequest struct {
	Id               uuid.UUID `json:"-"`
	Name             string    `json:"name" validate:"required,min=1,max=255"`
	Status           string    `json:"status" validate:"required,oneof=active suggested inactive"`
	RequiredDocTypes []string  `json:"required_doc_types" validate:"required,min=1,dive,min=1"`
}

type RuleResponse struct {
	Id               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Status           string     `json:"status"`
	RequiredDocTypes []string   `json:"required_doc_types"`
	Reason           *string    `json:"reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type SuggestRulesResponse struct {
	Suggestions []RuleResponse `json:"suggestions"`
}
