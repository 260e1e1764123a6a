package specification

import "gorm.io/gorm"

// PriceRange filters products by an inclusive price window. Either side
// may be nil, meaning that bound is open.
type PriceRange struct {
	Min *float64
	Max *float64
}

func (s PriceRange) Apply(db *gorm.DB) *gorm.DB {
	if s.Min != nil {
		db = db.Where("price >= ?", *s.Min)
	}
	if s.Max != nil {
		db = db.Where("price <= ?", *s.Max)
	}
	return db
}

// ByCategory filters products by category
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// TitlePrefix matches titles starting with the given prefix, case-insensitive.
type TitlePrefix struct {
	Prefix string
}

func (s TitlePrefix) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", s.Prefix+"%")
}
