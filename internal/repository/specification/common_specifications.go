package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by primary key.
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// sortableColumns whitelists what SortBy accepts. Unknown fields are
// ignored rather than interpolated into the ORDER BY clause.
var sortableColumns = map[string]string{
	"price":      "price",
	"title":      "title",
	"created_at": "created_at",
}

// SortBy orders on a whitelisted column.
type SortBy struct {
	Field string
	Desc  bool
}

func (s SortBy) Apply(db *gorm.DB) *gorm.DB {
	column, ok := sortableColumns[s.Field]
	if !ok {
		return db
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", column, direction))
}

// Pagination applies limit and offset as given. Callers clamp page size
// before building the specification.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// FilterBy is an exact-match filter. Field is interpolated into the query,
// callers pass column literals, never request input.
type FilterBy struct {
	Field string
	Value interface{}
}

func (s FilterBy) Apply(db *gorm.DB) *gorm.DB {
	query := fmt.Sprintf("%s = ?", s.Field)
	return db.Where(query, s.Value)
}

func Filter(field string, value interface{}) Specification {
	return FilterBy{Field: field, Value: value}
}
