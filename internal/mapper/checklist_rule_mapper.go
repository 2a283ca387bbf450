package mapper

import (
	"encoding/json"
	"time"

	"gapguard-be/internal/entity"
	"gapguard-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChecklistRuleMapper struct{}

func NewChecklistRuleMapper() *ChecklistRuleMapper {
	return &ChecklistRuleMapper{}
}

func (m *ChecklistRuleMapper) ToEntity(r *model.ChecklistRule) *entity.ChecklistRule {
	if r == nil {
		return nil
	}

	var docTypes []string
	if len(r.RequiredDocTypes) > 0 {
		// Malformed rows degrade to an empty checklist instead of failing reads.
		_ = json.Unmarshal(r.RequiredDocTypes, &docTypes)
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChecklistRule{
		Id:               r.Id,
		UserId:           r.UserId,
		Name:             r.Name,
		Status:           r.Status,
		RequiredDocTypes: docTypes,
		Reason:           r.Reason,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        r.DeletedAt.Valid,
	}
}

func (m *ChecklistRuleMapper) ToModel(r *entity.ChecklistRule) *model.ChecklistRule {
	if r == nil {
		return nil
	}

	docTypes := r.RequiredDocTypes
	if docTypes == nil {
		docTypes = []string{}
	}
	raw, _ := json.Marshal(docTypes)

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.ChecklistRule{
		Id:               r.Id,
		UserId:           r.UserId,
		Name:             r.Name,
		Status:           r.Status,
		RequiredDocTypes: datatypes.JSON(raw),
		Reason:           r.Reason,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *ChecklistRuleMapper) ToEntities(rules []*model.ChecklistRule) []*entity.ChecklistRule {
	entities := make([]*entity.ChecklistRule, len(rules))
	for i, r := range rules {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
