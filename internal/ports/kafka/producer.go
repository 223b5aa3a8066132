package kafka

import (
	"context"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
)

// IOutcomePublisher публикует события об оплате заказов в Kafka
type IOutcomePublisher interface {
	// PublishOutcome отправляет событие о терминальном статусе заказа
	PublishOutcome(ctx context.Context, order domain.Order, resolvedAt time.Time) error
	// Close закрывает producer
	Close() error
}
