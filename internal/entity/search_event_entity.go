package entity

import (
	"time"

	"github.com/google/uuid"
)

type SearchEvent struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Query          string
	SearchType     string
	Filters        map[string]interface{}
	ResultCount    int
	Page           int
	PageSize       int
	ResponseTimeMs int64
	CacheHit       bool
	FallbackUsed   bool
	CreatedAt      time.Time
}
