package model

import (
	"time"

	"github.com/google/uuid"
)

// RateLimitUsage mirrors the authoritative Redis counter into the
// database for dashboards and post-hoc auditing.
type RateLimitUsage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	RequestCount  int       `gorm:"not null;default:0"`
	LastRequestAt time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (RateLimitUsage) TableName() string {
	return "rate_limit_usage"
}
