package unitofwork

import (
	"context"

	"ai-shopsearch-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProductRepository() contract.ProductRepository
	SearchEventRepository() contract.SearchEventRepository
}
