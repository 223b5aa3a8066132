package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/ports/cache"
)

const outcomeKeyPrefix = "payment:outcome:"

func outcomeKey(reference domain.OrderReference) string {
	return outcomeKeyPrefix + reference.String()
}

func outcomeFromOrder(order domain.Order, resolvedAt time.Time) *domain.Outcome {
	outcome := &domain.Outcome{
		UserID:      order.UserID,
		Reference:   order.Reference,
		ProductType: order.ProductType,
		ResolvedAt:  resolvedAt,
	}
	if order.Status != nil {
		outcome.Status = *order.Status
	}
	return outcome
}

// cacheOutcome кладёт итог в кэш, ошибки кэша не влияют на результат
func (s *Service) cacheOutcome(ctx context.Context, outcome *domain.Outcome) {
	if s.Cache == nil {
		return
	}

	data, err := json.Marshal(outcome)
	if err != nil {
		s.Log.Warn("failed to marshal outcome", "error", err, "order_reference", outcome.Reference)
		return
	}

	if err := s.Cache.Set(ctx, outcomeKey(outcome.Reference), string(data), s.cfg.outcomeTTL()); err != nil {
		s.Log.Warn("failed to cache outcome", "error", err, "order_reference", outcome.Reference)
	}
}

// GetOutcome итог заказа по ссылке: сначала кэш, затем журнал в БД
func (s *Service) GetOutcome(ctx context.Context, reference domain.OrderReference) (*domain.Outcome, error) {
	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, outcomeKey(reference))
		switch {
		case err == nil:
			var outcome domain.Outcome
			if err := json.Unmarshal([]byte(raw), &outcome); err == nil {
				return &outcome, nil
			}
			s.Log.Warn("malformed cached outcome, evicting", "order_reference", reference)
			if err := s.Cache.Delete(ctx, outcomeKey(reference)); err != nil {
				s.Log.Warn("failed to evict cached outcome", "error", err, "order_reference", reference)
			}
		case !errors.Is(err, cache.ErrNotFound):
			s.Log.Warn("failed to read outcome from cache", "error", err, "order_reference", reference)
		}
	}

	if s.Journal != nil {
		outcome, err := s.Journal.GetOutcome(ctx, reference)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				return nil, err
			}
			s.Log.Error("failed to get outcome from journal", "error", err, "order_reference", reference)
			return nil, domain.WrapBusinessError(fmt.Errorf("failed to get outcome from journal: %w", err))
		}
		s.cacheOutcome(ctx, outcome)
		return outcome, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, reference)
}
