package gaps

import (
	"bytes"
	"time"

	"gapguard-be/internal/constant"
	"gapguard-be/internal/entity"

	"github.com/google/uuid"
)

// Engine derives gap rows from a checklist and the user's current
// documents. It is pure: no storage, no clock of its own.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate produces one gap per required doc type, in checklist order.
// Running it twice on unchanged input yields identical rows.
func (e *Engine) Evaluate(
	userId uuid.UUID,
	ruleId uuid.UUID,
	requiredDocTypes []string,
	docs []*entity.Document,
	now time.Time,
) []*entity.Gap {
	gaps := make([]*entity.Gap, 0, len(requiredDocTypes))
	for _, docType := range requiredDocTypes {
		gaps = append(gaps, e.evaluateOne(userId, ruleId, docType, docs, now))
	}
	return gaps
}

func (e *Engine) evaluateOne(
	userId uuid.UUID,
	ruleId uuid.UUID,
	docType string,
	docs []*entity.Document,
	now time.Time,
) *entity.Gap {
	gap := &entity.Gap{
		UserId:          userId,
		ChecklistRuleId: ruleId,
		RequiredDocType: docType,
		Status:          constant.GapStatusMissing,
		ComputedAt:      now,
	}

	doc := selectCandidate(filterByCategory(docs, docType))
	if doc == nil {
		return gap
	}

	docId := doc.Id
	gap.DocId = &docId

	if doc.ExpiryDate == nil {
		// No expiry means perpetually valid, except while the document
		// is still being ingested.
		if doc.Status == constant.DocumentStatusProcessing {
			gap.Status = constant.GapStatusProcessing
		} else {
			gap.Status = constant.GapStatusValid
		}
		return gap
	}

	daysLeft := calendarDaysUntil(now, *doc.ExpiryDate)
	gap.DaysLeft = &daysLeft
	switch {
	case daysLeft < 0:
		gap.Status = constant.GapStatusExpired
	case daysLeft <= constant.ExpiringSoonWindowDays:
		gap.Status = constant.GapStatusExpiringSoon
	default:
		gap.Status = constant.GapStatusValid
	}
	return gap
}

func filterByCategory(docs []*entity.Document, docType string) []*entity.Document {
	var matched []*entity.Document
	for _, doc := range docs {
		if doc.DocCategory != nil && *doc.DocCategory == docType {
			matched = append(matched, doc)
		}
	}
	return matched
}

// selectCandidate picks the document a gap should reference: prefer
// documents that finished ingestion, then the most recently created,
// then the lowest id so the choice is stable under equal timestamps.
// If every candidate is still processing, the best guess among them is
// returned anyway.
func selectCandidate(docs []*entity.Document) *entity.Document {
	if len(docs) == 0 {
		return nil
	}

	var best *entity.Document
	for _, doc := range docs {
		if best == nil || preferOver(doc, best) {
			best = doc
		}
	}
	return best
}

func preferOver(a, b *entity.Document) bool {
	aProcessing := a.Status == constant.DocumentStatusProcessing
	bProcessing := b.Status == constant.DocumentStatusProcessing
	if aProcessing != bProcessing {
		return !aProcessing
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.Id[:], b.Id[:]) < 0
}

// calendarDaysUntil truncates both instants to midnight before
// subtracting, so a same-day expiry yields 0, not a fraction.
func calendarDaysUntil(now time.Time, expiry time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expiryDay := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiryDay.Sub(nowDay).Hours() / 24)
}
