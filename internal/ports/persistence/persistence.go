package persistence

import (
	"context"
)

// Persistence чтение вне транзакции, запись только через WithTransaction
type Persistence interface {
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	WithTransaction(ctx context.Context, fn func(context.Context, Transaction) error) error
}

type Transaction interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
	ExecWithResult(ctx context.Context, query string, args ...interface{}) (int64, error)
	Commit() error
	Rollback() error
}
