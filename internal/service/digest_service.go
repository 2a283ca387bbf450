package service

import (
	"context"

	"gapguard-be/internal/apperror"
	"gapguard-be/internal/constant"
	"gapguard-be/internal/entity"
	"gapguard-be/internal/pkg/logger"
	"gapguard-be/internal/pkg/mailer"
	"gapguard-be/internal/repository/specification"
	"gapguard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// UserEmailResolver maps a user id to a deliverable address. Identity
// lives outside this service, so the lookup is pluggable.
type UserEmailResolver interface {
	Email(ctx context.Context, userId uuid.UUID) (string, error)
}

// StaticEmailResolver serves addresses from a fixed map, typically
// loaded from configuration in deployments without a user directory.
type StaticEmailResolver map[uuid.UUID]string

func (r StaticEmailResolver) Email(_ context.Context, userId uuid.UUID) (string, error) {
	return r[userId], nil
}

type IDigestService interface {
	RunDailyDigest(ctx context.Context) error
}

type digestService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	resolver     UserEmailResolver
	log          logger.ILogger
}

func NewDigestService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	resolver UserEmailResolver,
	log logger.ILogger,
) IDigestService {
	return &digestService{
		uowFactory:   uowFactory,
		emailService: emailService,
		resolver:     resolver,
		log:          log,
	}
}

// RunDailyDigest mails each affected user their current non-valid
// gaps. One user's delivery failure never blocks the rest of the run.
func (ds *digestService) RunDailyDigest(ctx context.Context) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	// Rows still in processing reflect ingestion in flight, not a gap
	// the user can act on yet.
	rows, err := uow.GapRepository().FindAll(ctx,
		specification.StatusNot{Status: constant.GapStatusValid},
		specification.StatusNot{Status: constant.GapStatusProcessing},
		specification.OrderBy{Field: "required_doc_type", Desc: false},
	)
	if err != nil {
		return apperror.Wrap(apperror.KindPersistence, "load gaps for digest", err)
	}

	byUser := make(map[uuid.UUID][]*entity.Gap)
	for _, gap := range rows {
		byUser[gap.UserId] = append(byUser[gap.UserId], gap)
	}

	sent := 0
	for userId, userGaps := range byUser {
		email, err := ds.resolver.Email(ctx, userId)
		if err != nil || email == "" {
			ds.log.Warn("digest", "no deliverable address for user", map[string]interface{}{
				"user_id": userId.String(),
			})
			continue
		}

		if err := ds.emailService.SendGapDigest(email, userGaps); err != nil {
			ds.log.Error("digest", "failed to send digest", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
			continue
		}
		sent++
	}

	ds.log.Info("digest", "daily digest run finished", map[string]interface{}{
		"users_with_gaps": len(byUser),
		"emails_sent":     sent,
	})
	return nil
}
