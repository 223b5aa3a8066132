package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/ports/kafka"
)

var _ kafka.IOutcomePublisher = (*Producer)(nil)

// Producer реализация Kafka producer
type Producer struct {
	producer sarama.SyncProducer
	cfg      *Config
	log      *slog.Logger
}

// outcomeEvent тело сообщения о терминальном статусе заказа
type outcomeEvent struct {
	OrderID        string                   `json:"order_id"`
	UserID         domain.UserID            `json:"user_id"`
	OrderReference domain.OrderReference    `json:"order_reference"`
	ProductType    string                   `json:"product_type"`
	Amount         int64                    `json:"amount"`
	Status         domain.TransactionStatus `json:"status"`
	CreatedAt      int64                    `json:"created_at"`
	ResolvedAt     int64                    `json:"resolved_at"`
}

// NewProducer создаёт новый Kafka producer
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	// Настройка безопасности (если указано)
	if cfg.SecurityProtocol == "SASL_SSL" || cfg.SecurityProtocol == "SASL_PLAINTEXT" {
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		if cfg.SASLMechanism == "SCRAM-SHA-256" {
			config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		}
		config.Net.SASL.User = cfg.SASLUsername
		config.Net.SASL.Password = cfg.SASLPassword
		// TLS только для SASL_SSL
		if cfg.SecurityProtocol == "SASL_SSL" {
			config.Net.TLS.Enable = true
		}
	}

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return newProducer(producer, cfg, log), nil
}

func newProducer(producer sarama.SyncProducer, cfg *Config, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		cfg:      cfg,
		log:      log,
	}
}

// PublishOutcome публикует терминальный статус заказа, ключ - order_reference
func (p *Producer) PublishOutcome(ctx context.Context, order domain.Order, resolvedAt time.Time) error {
	if order.Status == nil {
		return fmt.Errorf("order %s has no status to publish", order.Reference)
	}

	value, err := json.Marshal(outcomeEvent{
		OrderID:        order.ID.String(),
		UserID:         order.UserID,
		OrderReference: order.Reference,
		ProductType:    order.ProductType,
		Amount:         order.Amount,
		Status:         *order.Status,
		CreatedAt:      order.CreatedAt.Unix(),
		ResolvedAt:     resolvedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outcome event: %w", err)
	}

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("status"),
			Value: []byte(order.Status.String()),
		},
		{
			Key:   []byte("user_id"),
			Value: []byte(order.UserID.String()),
		},
		{
			Key:   []byte("product_type"),
			Value: []byte(order.ProductType),
		},
	}

	return p.send(ctx, order.Reference.String(), value, headers)
}

func (p *Producer) send(ctx context.Context, key string, value []byte, headers []sarama.RecordHeader) error {
	if err := ctx.Err(); err != nil {
		return err
	}


	msg := &sarama.ProducerMessage{
		Topic:   p.cfg.Topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		// Debug для технических деталей
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.cfg.Topic,
			"key", key,
		)
		// Оборачиваем с техническими деталями
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w",
			p.cfg.Topic, key, err)
	}

	p.log.Debug("message sent to kafka",
		"topic", p.cfg.Topic,
		"partition", partition,
		"offset", offset,
		"key", key,
	)

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
