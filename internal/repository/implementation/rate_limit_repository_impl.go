package implementation

import (
	"context"
	"time"

	"gapguard-be/internal/model"
	"gapguard-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateLimitRepositoryImpl struct {
	db *gorm.DB
}

func NewRateLimitRepository(db *gorm.DB) contract.RateLimitRepository {
	return &RateLimitRepositoryImpl{db: db}
}

// RecordRequest increments the per-user counter in a single
// conditional write so concurrent requests never undercount.
func (r *RateLimitRepositoryImpl) RecordRequest(ctx context.Context, userId uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":   gorm.Expr("rate_limit_usage.request_count + 1"),
			"last_request_at": now,
		}),
	}).Create(&model.RateLimitUsage{
		Id:            uuid.New(),
		UserId:        userId,
		RequestCount:  1,
		LastRequestAt: now,
	}).Error
}
