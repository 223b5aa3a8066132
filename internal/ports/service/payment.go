package service

import (
	"context"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
)

// IPaymentService интерфейс платёжного модуля для внешних потребителей (чат-транспорт, HTTP)
type IPaymentService interface {
	CreateInvoice(ctx context.Context, userID domain.UserID, amount int64, productType string) (*domain.Invoice, error)
	AwaitOutcome(ctx context.Context, userID domain.UserID, productType string) (*domain.Outcome, error)
	GetOutcome(ctx context.Context, reference domain.OrderReference) (*domain.Outcome, error)
}
