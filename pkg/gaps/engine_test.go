package gaps

import (
	"testing"
	"time"

	"gapguard-be/internal/constant"
	"gapguard-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testUserId = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testRuleId = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testNow    = time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
)

func doc(category string, status string, expiryDays *int, createdAt time.Time) *entity.Document {
	d := &entity.Document{
		Id:          uuid.New(),
		UserId:      testUserId,
		FileName:    category + ".pdf",
		Status:      status,
		DocCategory: &category,
		CreatedAt:   createdAt,
	}
	if expiryDays != nil {
		expiry := testNow.AddDate(0, 0, *expiryDays)
		d.ExpiryDate = &expiry
	}
	return d
}

func days(n int) *int { return &n }

func TestEvaluate_MissingCategory(t *testing.T) {
	engine := NewEngine()
	gaps := engine.Evaluate(testUserId, testRuleId, []string{"visa"}, nil, testNow)

	require.Len(t, gaps, 1)
	assert.Equal(t, constant.GapStatusMissing, gaps[0].Status)
	assert.Nil(t, gaps[0].DocId)
	assert.Nil(t, gaps[0].DaysLeft)
	assert.Equal(t, "visa", gaps[0].RequiredDocType)
}

func TestEvaluate_DaysLeftBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		expiryDays int
		wantStatus string
	}{
		{"expired yesterday", -1, constant.GapStatusExpired},
		{"expires today", 0, constant.GapStatusExpiringSoon},
		{"expires in 15 days", 15, constant.GapStatusExpiringSoon},
		{"expires in exactly 30 days", 30, constant.GapStatusExpiringSoon},
		{"expires in 31 days", 31, constant.GapStatusValid},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := []*entity.Document{
				doc("passport", constant.DocumentStatusValid, days(tt.expiryDays), testNow.AddDate(0, 0, -10)),
			}
			gaps := engine.Evaluate(testUserId, testRuleId, []string{"passport"}, docs, testNow)

			require.Len(t, gaps, 1)
			assert.Equal(t, tt.wantStatus, gaps[0].Status)
			require.NotNil(t, gaps[0].DaysLeft)
			assert.Equal(t, tt.expiryDays, *gaps[0].DaysLeft)
		})
	}
}

func TestEvaluate_SameDayExpiryIsZeroDays(t *testing.T) {
	// Expiry earlier on the same calendar day still counts as 0 days
	// left, not -1.
	category := "permit"
	expiry := time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC)
	docs := []*entity.Document{{
		Id:          uuid.New(),
		UserId:      testUserId,
		Status:      constant.DocumentStatusValid,
		DocCategory: &category,
		ExpiryDate:  &expiry,
		CreatedAt:   testNow.AddDate(0, 0, -1),
	}}

	gaps := NewEngine().Evaluate(testUserId, testRuleId, []string{"permit"}, docs, testNow)
	require.Len(t, gaps, 1)
	require.NotNil(t, gaps[0].DaysLeft)
	assert.Equal(t, 0, *gaps[0].DaysLeft)
	assert.Equal(t, constant.GapStatusExpiringSoon, gaps[0].Status)
}

func TestEvaluate_NoExpiryIsPerpetuallyValid(t *testing.T) {
	docs := []*entity.Document{
		doc("passport", constant.DocumentStatusValid, nil, testNow.AddDate(0, 0, -5)),
	}
	gaps := NewEngine().Evaluate(testUserId, testRuleId, []string{"passport"}, docs, testNow)

	require.Len(t, gaps, 1)
	assert.Equal(t, constant.GapStatusValid, gaps[0].Status)
	assert.Nil(t, gaps[0].DaysLeft)
}

func TestEvaluate_ProcessingDocPropagatesStatus(t *testing.T) {
	docs := []*entity.Document{
		doc("passport", constant.DocumentStatusProcessing, nil, testNow.AddDate(0, 0, -5)),
	}
	gaps := NewEngine().Evaluate(testUserId, testRuleId, []string{"passport"}, docs, testNow)

	require.Len(t, gaps, 1)
	assert.Equal(t, constant.GapStatusProcessing, gaps[0].Status)
	require.NotNil(t, gaps[0].DocId)
	assert.Equal(t, docs[0].Id, *gaps[0].DocId)
}

func TestEvaluate_PrefersFinishedDocOverNewerProcessing(t *testing.T) {
	older := doc("passport", constant.DocumentStatusValid, days(60), testNow.AddDate(0, 0, -30))
	newer := doc("passport", constant.DocumentStatusProcessing, days(90), testNow.AddDate(0, 0, -1))

	gaps := NewEngine().Evaluate(testUserId, testRuleId, []string{"passport"},
		[]*entity.Document{newer, older}, testNow)

	require.Len(t, gaps, 1)
	require.NotNil(t, gaps[0].DocId)
	assert.Equal(t, older.Id, *gaps[0].DocId)
}

func TestEvaluate_PrefersNewestAmongFinished(t *testing.T) {
	older := doc("passport", constant.DocumentStatusValid, days(10), testNow.AddDate(0, 0, -30))
	newer := doc("passport", constant.DocumentStatusValid, days(90), testNow.AddDate(0, 0, -1))

	gaps := NewEngine().Evaluate(testUserId, testRuleId, []string{"passport"},
		[]*entity.Document{older, newer}, testNow)

	require.Len(t, gaps, 1)
	require.NotNil(t, gaps[0].DocId)
	assert.Equal(t, newer.Id, *gaps[0].DocId)
}

func TestEvaluate_EqualTimestampsBreakTiesById(t *testing.T) {
	createdAt := testNow.AddDate(0, 0, -3)
	a := doc("passport", constant.DocumentStatusValid, days(40), createdAt)
	b := doc("passport", constant.DocumentStatusValid, days(40), createdAt)
	a.Id = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b.Id = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	engine := NewEngine()
	forward := engine.Evaluate(testUserId, testRuleId, []string{"passport"},
		[]*entity.Document{a, b}, testNow)
	reversed := engine.Evaluate(testUserId, testRuleId, []string{"passport"},
		[]*entity.Document{b, a}, testNow)

	require.NotNil(t, forward[0].DocId)
	require.NotNil(t, reversed[0].DocId)
	assert.Equal(t, a.Id, *forward[0].DocId)
	assert.Equal(t, *forward[0].DocId, *reversed[0].DocId)
}

func TestEvaluate_AllProcessingFallsBackToNewest(t *testing.T) {
	older := doc("passport", constant.DocumentStatusProcessing, nil, testNow.AddDate(0, 0, -30))
	newer := doc("passport", constant.DocumentStatusProcessing, nil, testNow.AddDate(0, 0, -1))

	gaps := NewEngine().Evaluate(testUserId, testRuleId, []string{"passport"},
		[]*entity.Document{older, newer}, testNow)

	require.Len(t, gaps, 1)
	require.NotNil(t, gaps[0].DocId)
	assert.Equal(t, newer.Id, *gaps[0].DocId)
}

func TestEvaluate_ChecklistOrderPreserved(t *testing.T) {
	checklist := []string{"passport", "visa", "insurance"}
	docs := []*entity.Document{
		doc("visa", constant.DocumentStatusValid, days(100), testNow.AddDate(0, 0, -2)),
	}

	gaps := NewEngine().Evaluate(testUserId, testRuleId, checklist, docs, testNow)
	require.Len(t, gaps, 3)
	for i, docType := range checklist {
		assert.Equal(t, docType, gaps[i].RequiredDocType)
	}
	assert.Equal(t, constant.GapStatusMissing, gaps[0].Status)
	assert.Equal(t, constant.GapStatusValid, gaps[1].Status)
	assert.Equal(t, constant.GapStatusMissing, gaps[2].Status)
}

func TestEvaluate_Idempotent(t *testing.T) {
	docs := []*entity.Document{
		doc("passport", constant.DocumentStatusValid, days(15), testNow.AddDate(0, 0, -4)),
		doc("visa", constant.DocumentStatusExpired, days(-10), testNow.AddDate(0, 0, -200)),
	}
	checklist := []string{"passport", "visa", "permit"}

	engine := NewEngine()
	first := engine.Evaluate(testUserId, testRuleId, checklist, docs, testNow)
	second := engine.Evaluate(testUserId, testRuleId, checklist, docs, testNow)
	assert.Equal(t, first, second)
}

func TestEvaluate_ExpiringSoonScenario(t *testing.T) {
	docs := []*entity.Document{
		doc("passport", constant.DocumentStatusValid, days(15), testNow.AddDate(0, 0, -1)),
	}
	gaps := NewEngine().Evaluate(testUserId, testRuleId, []string{"passport"}, docs, testNow)

	require.Len(t, gaps, 1)
	assert.Equal(t, constant.GapStatusExpiringSoon, gaps[0].Status)
	require.NotNil(t, gaps[0].DaysLeft)
	assert.Equal(t, 15, *gaps[0].DaysLeft)
}
