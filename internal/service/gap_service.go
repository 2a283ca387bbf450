package service

import (
	"context"
	"sync"
	"time"

	"gapguard-be/internal/apperror"
	"gapguard-be/internal/constant"
	"gapguard-be/internal/dto"
	"gapguard-be/internal/entity"
	"gapguard-be/internal/pkg/logger"
	"gapguard-be/internal/repository/specification"
	"gapguard-be/internal/repository/unitofwork"
	"gapguard-be/pkg/events"
	"gapguard-be/pkg/gaps"
	pktNats "gapguard-be/pkg/nats"

	"github.com/google/uuid"
)

type IGapService interface {
	RecomputeGaps(ctx context.Context, userId uuid.UUID) ([]*dto.GapResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GapResponse, error)
}

type gapService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *gaps.Engine
	natsPub    *pktNats.Publisher
	log        logger.ILogger
	now        func() time.Time
}

func NewGapService(uowFactory unitofwork.RepositoryFactory, natsPub *pktNats.Publisher, log logger.ILogger) IGapService {
	return &gapService{
		uowFactory: uowFactory,
		engine:     gaps.NewEngine(),
		natsPub:    natsPub,
		log:        log,
		now:        time.Now,
	}
}

// RecomputeGaps re-derives every gap for the user from their active
// checklist rules and current documents. Upserts are keyed by
// (user_id, required_doc_type), so recomputation is idempotent.
func (gs *gapService) RecomputeGaps(ctx context.Context, userId uuid.UUID) ([]*dto.GapResponse, error) {
	uow := gs.uowFactory.NewUnitOfWork(ctx)

	rules, err := uow.ChecklistRuleRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByRuleStatus{Status: constant.RuleStatusActive},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "load checklist rules", err)
	}
	if len(rules) == 0 {
		// No active rules means nothing to track; stale rows go too.
		if err := uow.GapRepository().DeleteByUserId(ctx, userId); err != nil {
			return nil, apperror.Wrap(apperror.KindPersistence, "clear gaps", err)
		}
		return []*dto.GapResponse{}, nil
	}

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "load documents", err)
	}

	now := gs.now()
	var computed []*entity.Gap
	seen := make(map[string]bool)
	for _, rule := range rules {
		for _, gap := range gs.engine.Evaluate(userId, rule.Id, rule.RequiredDocTypes, docs, now) {
			// Two rules can require the same doc type; the row is
			// keyed per type, so keep the first evaluation only.
			if seen[gap.RequiredDocType] {
				continue
			}
			seen[gap.RequiredDocType] = true
			computed = append(computed, gap)
		}
	}

	// Doc types dropped from the checklist must not survive as stale
	// rows, so the user's gaps are cleared before the fresh upserts.
	if err := uow.GapRepository().DeleteByUserId(ctx, userId); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "clear gaps", err)
	}

	// Gap rows are independent, so the upserts can run concurrently.
	// Every outcome is collected before reporting success.
	var wg sync.WaitGroup
	errs := make([]error, len(computed))
	for i, gap := range computed {
		wg.Add(1)
		go func(i int, gap *entity.Gap) {
			defer wg.Done()
			errs[i] = uow.GapRepository().Upsert(ctx, gap)
		}(i, gap)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, apperror.Wrap(apperror.KindPersistence, "store gaps", err)
		}
	}

	gs.log.Info("gap", "gaps recomputed", map[string]interface{}{
		"user_id": userId.String(),
		"count":   len(computed),
	})

	// The external bus is optional; local state is already consistent.
	if gs.natsPub != nil {
		if err := gs.natsPub.Publish(ctx, events.NewGapsRecomputed(userId, len(computed))); err != nil {
			gs.log.Warn("gap", "failed to publish recompute event", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}

	return toGapResponses(computed), nil
}

func (gs *gapService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GapResponse, error) {
	uow := gs.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.GapRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "required_doc_type", Desc: false},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "list gaps", err)
	}
	return toGapResponses(rows), nil
}

func toGapResponses(rows []*entity.Gap) []*dto.GapResponse {
	res := make([]*dto.GapResponse, len(rows))
	for i, gap := range rows {
		res[i] = &dto.GapResponse{
			RequiredDocType: gap.RequiredDocType,
			Status:          gap.Status,
			DocId:           gap.DocId,
			DaysLeft:        gap.DaysLeft,
			ComputedAt:      gap.ComputedAt,
		}
	}
	return res
}
