package implementation

import (
	"context"

	"gapguard-be/internal/entity"
	"gapguard-be/internal/mapper"
	"gapguard-be/internal/model"
	"gapguard-be/internal/repository/contract"
	"gapguard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GapRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GapMapper
}

func NewGapRepository(db *gorm.DB) contract.GapRepository {
	return &GapRepositoryImpl{
		db:     db,
		mapper: mapper.NewGapMapper(),
	}
}

func (r *GapRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert is a full replace-on-conflict keyed by (user_id,
// required_doc_type): stale gaps for the same key are overwritten,
// never duplicated.
func (r *GapRepositoryImpl) Upsert(ctx context.Context, gap *entity.Gap) error {
	m := r.mapper.ToModel(gap)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "required_doc_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"checklist_rule_id", "status", "doc_id", "days_left", "computed_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*gap = *r.mapper.ToEntity(m)
	return nil
}

func (r *GapRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Gap, error) {
	var models []*model.Gap
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *GapRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.Gap{}).Error
}
