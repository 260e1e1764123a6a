package specification

import "gorm.io/gorm"

// Specification is a composable query fragment. Repositories take a variadic
// list of these so callers assemble filters, ordering and pagination without
// the repository growing a parameter per concern.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// ApplyAll chains every specification onto the query in order. Order matters
// only for readability, gorm collects the clauses either way.
func ApplyAll(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
