package pg

import (
	"context"

	"github.com/admin/tg-bots/shop-bot/internal/ports/persistence"
	"github.com/jmoiron/sqlx"
)

var _ persistence.Transaction = (*Tx)(nil)

// Tx обёртка над sqlx.Tx для работы с транзакциями
type Tx struct {
	tx *sqlx.Tx
}

// Exec запрос в транзакции без возврата данных
func (t *Tx) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

// ExecWithResult запрос в транзакции и возвращает количество затронутых строк
func (t *Tx) ExecWithResult(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
