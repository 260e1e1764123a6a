package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per request. The hot paths
// never call Begin, a single read or insert runs on the pooled connection;
// Begin and Commit are for callers that need several writes to land together.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
