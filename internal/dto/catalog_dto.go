package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListProductsRequest struct {
	Page      int    `json:"page" validate:"min=1"`
	Limit     int    `json:"limit" validate:"min=1,max=100"`
	Category  string `json:"category" validate:"omitempty,max=100"`
	SortBy    string `json:"sort_by" validate:"omitempty,oneof=price title created_at"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type ProductResponse struct {
	Id          uuid.UUID `json:"id"`
	ExternalId  string    `json:"external_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListProductsResponse struct {
	Products   []ProductResponse `json:"products"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Limit      int               `json:"limit"`
}
