package implementation

import (
	"context"
	"errors"

	"gapguard-be/internal/entity"
	"gapguard-be/internal/mapper"
	"gapguard-be/internal/model"
	"gapguard-be/internal/repository/contract"
	"gapguard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChecklistRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChecklistRuleMapper
}

func NewChecklistRuleRepository(db *gorm.DB) contract.ChecklistRuleRepository {
	return &ChecklistRuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewChecklistRuleMapper(),
	}
}

func (r *ChecklistRuleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChecklistRuleRepositoryImpl) Create(ctx context.Context, rule *entity.ChecklistRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChecklistRuleRepositoryImpl) CreateBulk(ctx context.Context, rules []*entity.ChecklistRule) error {
	if len(rules) == 0 {
		return nil
	}
	models := make([]*model.ChecklistRule, len(rules))
	for i, rule := range rules {
		models[i] = r.mapper.ToModel(rule)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*rules[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChecklistRuleRepositoryImpl) Update(ctx context.Context, rule *entity.ChecklistRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChecklistRuleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ChecklistRule{}, id).Error
}

func (r *ChecklistRuleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChecklistRule, error) {
	var m model.ChecklistRule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChecklistRuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChecklistRule, error) {
	var models []*model.ChecklistRule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
