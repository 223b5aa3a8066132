package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/metrics"
)

// AwaitOutcome ждёт терминальный статус первого заказа пользователя с данным типом продукта
// После получения статуса заказ удаляется из леджера. По таймауту заказ остаётся в леджере:
// транзакция на стороне шлюза от локального таймаута не отменяется.
func (s *Service) AwaitOutcome(ctx context.Context, userID domain.UserID, productType string) (*domain.Outcome, error) {
	order, ok := s.Ledger.FirstByProduct(userID, productType)
	if !ok {
		metrics.AwaitOutcomesTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: user_id=%d product_type=%q", domain.ErrOrderNotFound, userID, productType)
	}

	s.Log.Debug("awaiting order outcome",
		"user_id", userID,
		"order_reference", order.Reference,
		"product_type", productType,
	)

	ticker := time.NewTicker(s.cfg.awaitPollInterval())
	defer ticker.Stop()
	deadline := time.NewTimer(s.cfg.awaitTimeout())
	defer deadline.Stop()

	for {
		outcome, done, err := s.pollOutcome(ctx, order)
		if done {
			return outcome, err
		}

		select {
		case <-ctx.Done():
			metrics.AwaitOutcomesTotal.WithLabelValues("cancelled").Inc()
			return nil, ctx.Err()
		case <-ticker.C:
		case <-deadline.C:
			// статус мог прийти между последним опросом и дедлайном
			if outcome, done, err := s.pollOutcome(ctx, order); done {
				return outcome, err
			}

			metrics.AwaitOutcomesTotal.WithLabelValues("timeout").Inc()
			s.Log.Warn("order outcome await timed out",
				"user_id", userID,
				"order_reference", order.Reference,
				"product_type", productType,
				"timeout", s.cfg.awaitTimeout(),
			)
			return nil, fmt.Errorf("%w: order %s", domain.ErrAwaitTimeout, order.Reference)
		}
	}
}

// pollOutcome один опрос заказа; done=false - статус ещё не записан
func (s *Service) pollOutcome(ctx context.Context, order domain.Order) (*domain.Outcome, bool, error) {
	current, ok := s.Ledger.Get(order.UserID, order.ID)
	if !ok {
		return nil, true, s.vanished(order)
	}
	if current.IsPending() {
		return nil, false, nil
	}

	// удаляет только один из конкурирующих ожидающих
	if !s.Ledger.RemoveAndPrune(order.UserID, order.ID) {
		return nil, true, s.vanished(order)
	}

	retiredAt := s.now()
	metrics.AwaitOutcomesTotal.WithLabelValues("resolved").Inc()
	metrics.PendingOrders.Set(float64(s.Ledger.Len()))

	if s.Journal != nil {
		if err := s.Journal.MarkRetired(ctx, order.Reference, retiredAt); err != nil {
			s.Log.Warn("failed to journal order retirement", "error", err, "order_reference", order.Reference)
		}
	}

	outcome := outcomeFromOrder(current, retiredAt)
	s.cacheOutcome(ctx, outcome)

	s.Log.Info("order outcome delivered",
		"user_id", order.UserID,
		"order_reference", order.Reference,
		"product_type", order.ProductType,
		"status", outcome.Status,
	)

	return outcome, true, nil
}

func (s *Service) vanished(order domain.Order) error {
	metrics.AwaitOutcomesTotal.WithLabelValues("vanished").Inc()
	s.Log.Warn("order removed from ledger while awaiting",
		"user_id", order.UserID,
		"order_id", order.ID,
		"order_reference", order.Reference,
		"product_type", order.ProductType,
	)
	return fmt.Errorf("%w: order %s", domain.ErrOrderVanished, order.Reference)
}
