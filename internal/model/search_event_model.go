package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SearchEvent rows are append-only analytics, no soft delete.
type SearchEvent struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query          string         `gorm:"type:varchar(500);not null;index"`
	SearchType     string         `gorm:"type:varchar(50);not null;default:'ai_search'"`
	Filters        datatypes.JSON `gorm:"type:jsonb"`
	ResultCount    int            `gorm:"not null;default:0"`
	Page           int            `gorm:"not null;default:1"`
	PageSize       int            `gorm:"not null;default:20"`
	ResponseTimeMs int64          `gorm:"not null;default:0"`
	CacheHit       bool           `gorm:"not null;default:false"`
	FallbackUsed   bool           `gorm:"not null;default:false"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
}

func (SearchEvent) TableName() string {
	return "search_events"
}
