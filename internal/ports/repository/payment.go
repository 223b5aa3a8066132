package repository

import (
	"context"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
)

// IPaymentJournal журнал заказов в БД (аудит, леджер из него не читает)
type IPaymentJournal interface {
	Create(ctx context.Context, order *domain.Order, invoiceURL string) error
	UpdateStatus(ctx context.Context, reference domain.OrderReference, status domain.TransactionStatus, resolvedAt time.Time) error
	MarkRetired(ctx context.Context, reference domain.OrderReference, retiredAt time.Time) error
	// GetOutcome итог заказа, domain.ErrOrderNotFound если заказа нет или он ещё не оплачен
	GetOutcome(ctx context.Context, reference domain.OrderReference) (*domain.Outcome, error)
}
