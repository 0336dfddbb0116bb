package service

import (
	"context"

	"dojo.app/platform/core/db"
	"dojo.app/platform/core/db/queries"
	"dojo.app/platform/internal/store"
)

// StoreProvider exposes only the stores needed by a transactional operation.
type StoreProvider interface {
	Organizations() store.OrganizationStore
	Schools() store.SchoolStore
	Users() store.UserStore
	Students() store.StudentStore
	Classes() store.ClassStore
	Attendance() store.AttendanceStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *queries.Queries) error {
		stores := store.NewStores(q)
		return fn(stores)
	})
}
