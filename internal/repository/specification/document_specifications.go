package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByFileName filters documents by their exact file name.
type ByFileName struct {
	FileName string
}

func (s ByFileName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_name = ?", s.FileName)
}

// ByDocCategory filters documents by inferred category label.
type ByDocCategory struct {
	Category string
}

func (s ByDocCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doc_category = ?", s.Category)
}

// ByStatus filters by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// StatusNot excludes rows in the given lifecycle status.
type StatusNot struct {
	Status string
}

func (s StatusNot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", s.Status)
}

// Classified keeps documents whose category has been inferred.
type Classified struct{}

func (s Classified) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doc_category IS NOT NULL")
}

// ByChatSessionID filters chat messages by owning session.
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ByRuleStatus filters checklist rules by status.
type ByRuleStatus struct {
	Status string
}

func (s ByRuleStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
