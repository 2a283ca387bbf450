package mapper

import (
	"gapguard-be/internal/entity"
	"gapguard-be/internal/model"
)

type GapMapper struct{}

func NewGapMapper() *GapMapper {
	return &GapMapper{}
}

func (m *GapMapper) ToEntity(g *model.Gap) *entity.Gap {
	if g == nil {
		return nil
	}
	return &entity.Gap{
		Id:              g.Id,
		UserId:          g.UserId,
		ChecklistRuleId: g.ChecklistRuleId,
		RequiredDocType: g.RequiredDocType,
		Status:          g.Status,
		DocId:           g.DocId,
		DaysLeft:        g.DaysLeft,
		ComputedAt:      g.ComputedAt,
	}
}

func (m *GapMapper) ToModel(g *entity.Gap) *model.Gap {
	if g == nil {
		return nil
	}
	return &model.Gap{
		Id:              g.Id,
		UserId:          g.UserId,
		ChecklistRuleId: g.ChecklistRuleId,
		RequiredDocType: g.RequiredDocType,
		Status:          g.Status,
		DocId:           g.DocId,
		DaysLeft:        g.DaysLeft,
		ComputedAt:      g.ComputedAt,
	}
}

func (m *GapMapper) ToEntities(gaps []*model.Gap) []*entity.Gap {
	entities := make([]*entity.Gap, len(gaps))
	for i, g := range gaps {
		entities[i] = m.ToEntity(g)
	}
	return entities
}
