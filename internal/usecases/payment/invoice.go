package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/metrics"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/signature"
	paymentPort "github.com/admin/tg-bots/shop-bot/internal/ports/payment"
	"github.com/google/uuid"
)

// CreateInvoice выставляет счёт и ставит заказ на отслеживание
// Заказ попадает в леджер только если шлюз вернул ссылку на оплату
func (s *Service) CreateInvoice(ctx context.Context, userID domain.UserID, amount int64, productType string) (*domain.Invoice, error) {
	if amount <= 0 || productType == "" {
		metrics.InvoicesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: amount=%d product_type=%q", domain.ErrInvalidInvoice, amount, productType)
	}

	orderDate := s.nextOrderDate(userID)
	reference := domain.NewOrderReference(userID, orderDate)
	currency := s.cfg.currency()

	sig := s.Signer.Sign(signature.InvoiceFields(
		s.merchant.Account,
		s.merchant.DomainName,
		reference.String(),
		orderDate.Unix(),
		amount,
		currency,
		productType,
	)...)

	res, err := s.Gateway.CreateInvoice(ctx, paymentPort.CreateInvoiceRequest{
		MerchantAccount: s.merchant.Account,
		DomainName:      s.merchant.DomainName,
		OrderReference:  reference,
		OrderDate:       orderDate.Unix(),
		Amount:          amount,
		Currency:        currency,
		ProductName:     productType,
		Signature:       sig,
	})
	if err != nil {
		s.Log.Error("failed to create invoice",
			"error", err,
			"user_id", userID,
			"order_reference", reference,
			"product_type", productType,
			"amount", amount,
		)
		metrics.InvoicesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	order := domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Reference:   reference,
		ProductType: productType,
		Amount:      amount,
		CreatedAt:   orderDate,
	}
	s.Ledger.Append(order)
	metrics.InvoicesTotal.WithLabelValues("created").Inc()
	metrics.PendingOrders.Set(float64(s.Ledger.Len()))

	if s.Journal != nil {
		if err := s.Journal.Create(ctx, &order, res.InvoiceURL); err != nil {
			s.Log.Warn("failed to journal order", "error", err, "order_reference", reference)
		}
	}

	s.Log.Info("invoice created",
		"user_id", userID,
		"order_id", order.ID,
		"order_reference", reference,
		"product_type", productType,
		"amount", amount,
	)

	return &domain.Invoice{
		URL:       res.InvoiceURL,
		QRCode:    res.QRCode,
		Reference: reference,
	}, nil
}

// nextOrderDate текущее время в секундах, строго возрастающее для пользователя,
// чтобы ссылка "<user_id>-<order_date>" не повторялась
// В карте остаются только даты не старше текущей секунды
func (s *Service) nextOrderDate(userID domain.UserID) time.Time {
	s.datesMu.Lock()
	defer s.datesMu.Unlock()

	sec := s.now().Unix()
	for id, last := range s.lastOrderDates {
		if last < sec {
			delete(s.lastOrderDates, id)
		}
	}

	if last, ok := s.lastOrderDates[userID]; ok && sec <= last {
		sec = last + 1
	}
	s.lastOrderDates[userID] = sec

	return time.Unix(sec, 0)
}
