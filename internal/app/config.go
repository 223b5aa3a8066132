package app

import (
	"fmt"

	server "github.com/admin/tg-bots/shop-bot/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/kafka"
	"github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/payment/wayforpay"
	"github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/storage/redis"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/logger"
	paymentUsecase "github.com/admin/tg-bots/shop-bot/internal/usecases/payment"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Log       *logger.Config         `envconfig:"LOG"`
	Server    *server.Config         `envconfig:"APISERVER"`
	WayForPay *wayforpay.Config      `envconfig:"WAYFORPAY"`
	Payment   *paymentUsecase.Config `envconfig:"PAYMENT"`

	// опциональные, включаются при заданном адресе/токене
	Postgres *pg.Config             `envconfig:"POSTGRES"`
	Redis    *redisAdapter.Config   `envconfig:"REDIS"`
	Kafka    *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter  *alerterAdapter.Config `envconfig:"ALERTER"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры мерчанта
func (c *Config) Validate() error {
	if err := c.WayForPay.Validate(); err != nil {
		return fmt.Errorf("wayforpay config: %w", err)
	}
	return nil
}
