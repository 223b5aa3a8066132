package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/metrics"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/signature"
	paymentPort "github.com/admin/tg-bots/shop-bot/internal/ports/payment"
	"golang.org/x/sync/errgroup"
)

// Reconcile один проход сверки всех ожидающих заказов со списком транзакций шлюза
// Ошибки шлюза по отдельному заказу логируются и не прерывают проход.
// Возвращает только нарушения инвариантов леджера.
func (s *Service) Reconcile(ctx context.Context) error {
	pending := s.Ledger.Pending()
	metrics.PendingOrders.Set(float64(len(pending)))
	if len(pending) == 0 {
		return nil
	}

	start := time.Now()
	windowEnd := s.now().Unix()

	var (
		mu         sync.Mutex
		violations []error
		g          errgroup.Group
	)
	g.SetLimit(s.cfg.sweepConcurrency())

	for _, order := range pending {
		order := order
		g.Go(func() error {
			if err := s.reconcileOrder(ctx, order, windowEnd); err != nil {
				mu.Lock()
				violations = append(violations, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	metrics.ReconciliationSweepsTotal.Inc()
	metrics.ReconciliationSweepDuration.Observe(time.Since(start).Seconds())
	metrics.PendingOrders.Set(float64(s.Ledger.Len()))

	s.Log.Debug("reconciliation sweep completed",
		"orders", len(pending),
		"violations", len(violations),
		"duration", time.Since(start),
	)

	return errors.Join(violations...)
}

// reconcileOrder сверяет один заказ, ошибка - только нарушение инварианта
func (s *Service) reconcileOrder(ctx context.Context, order domain.Order, windowEnd int64) error {
	// статус могли записать после снапшота, проверяем до запроса в сеть
	current, ok := s.Ledger.Get(order.UserID, order.ID)
	if !ok {
		return s.invariantViolation("reconcile", order, domain.ErrOrderMissing)
	}
	if !current.IsPending() {
		return nil
	}

	windowStart := order.CreatedAt.Unix() - s.cfg.lookbackSeconds()
	sig := s.Signer.Sign(signature.TransactionListFields(s.merchant.Account, windowStart, windowEnd)...)

	records, err := s.Gateway.ListTransactions(ctx, paymentPort.ListTransactionsRequest{
		MerchantAccount: s.merchant.Account,
		WindowStart:     windowStart,
		WindowEnd:       windowEnd,
		Signature:       sig,
	})
	if err != nil {
		s.Log.Warn("failed to list transactions for order",
			"error", err,
			"user_id", order.UserID,
			"order_reference", order.Reference,
			"date_begin", windowStart,
			"date_end", windowEnd,
		)
		return nil
	}

	status, found := terminalStatusFor(order.Reference, records)
	if !found {
		for _, rec := range records {
			if rec.OrderReference == order.Reference {
				s.Log.Debug("order transaction not final yet",
					"order_reference", order.Reference,
					"transaction_status", rec.TransactionStatus,
				)
			}
		}
		return nil
	}

	return s.resolve(ctx, order, status)
}

// terminalStatusFor ищет терминальный статус транзакции заказа
// Если по ссылке несколько транзакций, Approved приоритетнее остальных
func terminalStatusFor(reference domain.OrderReference, records []paymentPort.TransactionRecord) (domain.TransactionStatus, bool) {
	var (
		status domain.TransactionStatus
		found  bool
	)
	for _, rec := range records {
		if rec.OrderReference != reference || !rec.TransactionStatus.IsTerminal() {
			continue
		}
		if rec.TransactionStatus == domain.TransactionStatusApproved {
			return rec.TransactionStatus, true
		}
		if !found {
			status, found = rec.TransactionStatus, true
		}
	}
	return status, found
}

// resolve записывает терминальный статус и уведомляет опциональные зависимости
func (s *Service) resolve(ctx context.Context, order domain.Order, status domain.TransactionStatus) error {
	err := s.Ledger.SetStatus(order.UserID, order.ID, status)
	switch {
	case errors.Is(err, domain.ErrStatusAlreadySet):
		s.Log.Debug("order status already set, skipping", "order_reference", order.Reference)
		return nil
	case err != nil:
		return s.invariantViolation("reconcile", order, err)
	}

	resolvedAt := s.now()
	order.Status = &status
	metrics.OrdersResolvedTotal.WithLabelValues(status.String()).Inc()

	s.Log.Info("order status resolved",
		"user_id", order.UserID,
		"order_reference", order.Reference,
		"product_type", order.ProductType,
		"status", status,
	)

	if s.Journal != nil {
		if err := s.Journal.UpdateStatus(ctx, order.Reference, status, resolvedAt); err != nil {
			s.Log.Warn("failed to journal order status", "error", err, "order_reference", order.Reference)
		}
	}

	if s.Publisher != nil {
		if err := s.Publisher.PublishOutcome(ctx, order, resolvedAt); err != nil {
			s.Log.Warn("failed to publish order outcome", "error", err, "order_reference", order.Reference)
		}
	}

	s.cacheOutcome(ctx, outcomeFromOrder(order, resolvedAt))

	return nil
}
