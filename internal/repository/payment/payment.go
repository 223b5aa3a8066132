package paymentRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/ports/persistence"
	ports "github.com/admin/tg-bots/shop-bot/internal/ports/repository"
)

// события в payment_order_events
const (
	eventCreated  = "created"
	eventResolved = "resolved"
	eventRetired  = "retired"
)

type orderColumns struct {
	TableName      string
	ID             string
	UserID         string
	OrderReference string
	ProductType    string
	Amount         string
	InvoiceURL     string
	Status         string
	CreatedAt      string
	ResolvedAt     string
	RetiredAt      string
}

// outcomeRow строка payment_orders для итога заказа
type outcomeRow struct {
	UserID         int64      `db:"user_id"`
	OrderReference string     `db:"order_reference"`
	ProductType    string     `db:"product_type"`
	Status         *string    `db:"status"`
	ResolvedAt     *time.Time `db:"resolved_at"`
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns orderColumns
}

// New создаёт журнал заказов в БД
func New(db persistence.Persistence, log *slog.Logger) ports.IPaymentJournal {
	cols := orderColumns{
		TableName:      "payment_orders",
		ID:             "id",
		UserID:         "user_id",
		OrderReference: "order_reference",
		ProductType:    "product_type",
		Amount:         "amount",
		InvoiceURL:     "invoice_url",
		Status:         "status",
		CreatedAt:      "created_at",
		ResolvedAt:     "resolved_at",
		RetiredAt:      "retired_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// Create записывает выставленный счёт
func (r *Repository) Create(ctx context.Context, order *domain.Order, invoiceURL string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.UserID,
		r.columns.OrderReference,
		r.columns.ProductType,
		r.columns.Amount,
		r.columns.InvoiceURL,
		r.columns.CreatedAt,
	)

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		if err := tx.Exec(ctx, query,
			order.ID,
			int64(order.UserID),
			order.Reference.String(),
			order.ProductType,
			order.Amount,
			invoiceURL,
			order.CreatedAt,
		); err != nil {
			return err
		}
		return r.insertEvent(ctx, tx, order.Reference, eventCreated, nil, order.CreatedAt)
	})
	if err != nil {
		r.Log.Error("failed to create payment order",
			"error", err,
			"order_reference", order.Reference,
			"user_id", order.UserID,
		)
		return fmt.Errorf("failed to create payment order: %w", err)
	}

	r.Log.Debug("payment order created successfully",
		"order_reference", order.Reference,
		"user_id", order.UserID,
		"amount", order.Amount,
	)
	return nil
}

// UpdateStatus записывает терминальный статус, уже записанный статус не перезаписывается
func (r *Repository) UpdateStatus(ctx context.Context, reference domain.OrderReference, status domain.TransactionStatus, resolvedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 AND %s IS NULL`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.ResolvedAt,
		r.columns.OrderReference,
		r.columns.Status,
	)

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		rows, err := tx.ExecWithResult(ctx, query, status.String(), resolvedAt, reference.String())
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrStatusAlreadySet
		}
		st := status.String()
		return r.insertEvent(ctx, tx, reference, eventResolved, &st, resolvedAt)
	})
	if err != nil {
		if errors.Is(err, domain.ErrStatusAlreadySet) {
			r.Log.Warn("payment order status already set or order not journaled",
				"order_reference", reference,
				"status", status,
			)
			return fmt.Errorf("order %s: %w", reference, err)
		}
		r.Log.Error("failed to update payment order status",
			"error", err,
			"order_reference", reference,
			"status", status,
		)
		return fmt.Errorf("failed to update payment order status: %w", err)
	}

	r.Log.Debug("payment order status updated successfully",
		"order_reference", reference,
		"status", status,
	)
	return nil
}

// MarkRetired отмечает, что итог заказа выдан и заказ удалён из леджера
func (r *Repository) MarkRetired(ctx context.Context, reference domain.OrderReference, retiredAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s IS NULL`,
		r.columns.TableName,
		r.columns.RetiredAt,
		r.columns.OrderReference,
		r.columns.RetiredAt,
	)

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		rows, err := tx.ExecWithResult(ctx, query, retiredAt, reference.String())
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		return r.insertEvent(ctx, tx, reference, eventRetired, nil, retiredAt)
	})
	if err != nil {
		r.Log.Error("failed to mark payment order retired",
			"error", err,
			"order_reference", reference,
		)
		return fmt.Errorf("failed to mark payment order retired: %w", err)
	}

	return nil
}

// GetOutcome итог заказа по ссылке
func (r *Repository) GetOutcome(ctx context.Context, reference domain.OrderReference) (*domain.Outcome, error) {
	var row outcomeRow

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		r.columns.UserID,
		r.columns.OrderReference,
		r.columns.ProductType,
		r.columns.Status,
		r.columns.ResolvedAt,
		r.columns.TableName,
		r.columns.OrderReference,
	)

	err := r.db.Get(ctx, &row, query, reference.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, reference)
		}
		r.Log.Error("failed to get payment order",
			"error", err,
			"order_reference", reference,
		)
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}

	// заказ ещё ждёт оплаты
	if row.Status == nil {
		return nil, fmt.Errorf("%w: %s is pending", domain.ErrOrderNotFound, reference)
	}

	outcome := &domain.Outcome{
		UserID:      domain.UserID(row.UserID),
		Status:      domain.TransactionStatus(*row.Status),
		Reference:   domain.OrderReference(row.OrderReference),
		ProductType: row.ProductType,
	}
	if row.ResolvedAt != nil {
		outcome.ResolvedAt = *row.ResolvedAt
	}
	return outcome, nil
}

func (r *Repository) insertEvent(ctx context.Context, tx persistence.Transaction, reference domain.OrderReference, event string, status *string, at time.Time) error {
	return tx.Exec(ctx,
		`INSERT INTO payment_order_events (order_reference, event, status, occurred_at) VALUES ($1, $2, $3, $4)`,
		reference.String(), event, status, at,
	)
}
