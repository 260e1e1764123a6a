package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalId  string    `gorm:"index"`
	Title       string
	Description string
	Price       float64
	Category    string
	Tags        []string
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

// SearchableText is the document the embedding is generated from.
func (p *Product) SearchableText() string {
	text := p.Title
	if p.Description != "" {
		text += ". " + p.Description
	}
	for _, tag := range p.Tags {
		text += " " + tag
	}
	return text
}
