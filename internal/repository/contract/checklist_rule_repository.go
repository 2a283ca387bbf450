package contract

import (
	"context"

	"gapguard-be/internal/entity"
	"gapguard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChecklistRuleRepository interface {
	Create(ctx context.Context, rule *entity.ChecklistRule) error
	CreateBulk(ctx context.Context, rules []*entity.ChecklistRule) error
	Update(ctx context.Context, rule *entity.ChecklistRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChecklistRule, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChecklistRule, error)
}
