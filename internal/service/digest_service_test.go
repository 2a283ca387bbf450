package service

import (
	"context"
	"errors"
	"testing"

	"gapguard-be/internal/constant"
	"gapguard-be/internal/entity"
	"gapguard-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type digestSend struct {
	email string
	gaps  []*entity.Gap
}

type fakeEmailService struct {
	sent []digestSend
	err  error
}

func (s *fakeEmailService) SendGapDigest(toEmail string, gaps []*entity.Gap) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, digestSend{email: toEmail, gaps: gaps})
	return nil
}

func TestRunDailyDigestExcludesInFlightStatuses(t *testing.T) {
	uow := newFakeUow()
	var captured []specification.Specification
	uow.gaps.findAllFn = func(specs ...specification.Specification) ([]*entity.Gap, error) {
		captured = specs
		return nil, nil
	}

	emails := &fakeEmailService{}
	svc := NewDigestService(&fakeFactory{uow: uow}, emails, StaticEmailResolver{}, nopLogger{})
	require.NoError(t, svc.RunDailyDigest(context.Background()))
	assert.Empty(t, emails.sent)

	// Both valid and still-processing rows stay out of the mailout.
	excluded := make([]string, 0, 2)
	for _, spec := range captured {
		if s, ok := spec.(specification.StatusNot); ok {
			excluded = append(excluded, s.Status)
		}
	}
	assert.ElementsMatch(t,
		[]string{constant.GapStatusValid, constant.GapStatusProcessing}, excluded)
}

func TestRunDailyDigestGroupsGapsPerUser(t *testing.T) {
	uow := newFakeUow()
	alice, bob := uuid.New(), uuid.New()

	uow.gaps.findAllFn = func(specs ...specification.Specification) ([]*entity.Gap, error) {
		return []*entity.Gap{
			{UserId: alice, RequiredDocType: "passport", Status: constant.GapStatusMissing},
			{UserId: alice, RequiredDocType: "visa", Status: constant.GapStatusExpired},
			{UserId: bob, RequiredDocType: "insurance", Status: constant.GapStatusExpiringSoon},
		}, nil
	}

	emails := &fakeEmailService{}
	resolver := StaticEmailResolver{
		alice: "alice@example.com",
		bob:   "bob@example.com",
	}
	svc := NewDigestService(&fakeFactory{uow: uow}, emails, resolver, nopLogger{})

	require.NoError(t, svc.RunDailyDigest(context.Background()))
	require.Len(t, emails.sent, 2)

	byEmail := make(map[string]int)
	for _, send := range emails.sent {
		byEmail[send.email] = len(send.gaps)
	}
	assert.Equal(t, map[string]int{"alice@example.com": 2, "bob@example.com": 1}, byEmail)
}

func TestRunDailyDigestSkipsUnresolvableUsers(t *testing.T) {
	uow := newFakeUow()
	known, unknown := uuid.New(), uuid.New()

	uow.gaps.findAllFn = func(specs ...specification.Specification) ([]*entity.Gap, error) {
		return []*entity.Gap{
			{UserId: known, RequiredDocType: "passport", Status: constant.GapStatusMissing},
			{UserId: unknown, RequiredDocType: "visa", Status: constant.GapStatusMissing},
		}, nil
	}

	emails := &fakeEmailService{}
	resolver := StaticEmailResolver{known: "known@example.com"}
	svc := NewDigestService(&fakeFactory{uow: uow}, emails, resolver, nopLogger{})

	require.NoError(t, svc.RunDailyDigest(context.Background()))
	require.Len(t, emails.sent, 1)
	assert.Equal(t, "known@example.com", emails.sent[0].email)
}

func TestRunDailyDigestDeliveryFailureIsNotFatal(t *testing.T) {
	uow := newFakeUow()
	userId := uuid.New()

	uow.gaps.findAllFn = func(specs ...specification.Specification) ([]*entity.Gap, error) {
		return []*entity.Gap{
			{UserId: userId, RequiredDocType: "passport", Status: constant.GapStatusMissing},
		}, nil
	}

	emails := &fakeEmailService{err: errors.New("smtp refused")}
	resolver := StaticEmailResolver{userId: "user@example.com"}
	svc := NewDigestService(&fakeFactory{uow: uow}, emails, resolver, nopLogger{})

	assert.NoError(t, svc.RunDailyDigest(context.Background()))
}

func TestRunDailyDigestNoGapsSendsNothing(t *testing.T) {
	uow := newFakeUow()
	emails := &fakeEmailService{}
	svc := NewDigestService(&fakeFactory{uow: uow}, emails, StaticEmailResolver{}, nopLogger{})

	require.NoError(t, svc.RunDailyDigest(context.Background()))
	assert.Empty(t, emails.sent)
}
