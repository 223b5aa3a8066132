package wayforpay

import (
	"fmt"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
)

const (
	defaultBaseURL        = "https://api.wayforpay.com/api"
	defaultPaymentSystems = "card;googlePay;applePay;privat24"
	defaultTimeout        = 30 * time.Second
)

type Config struct {
	MerchantAccount string        `envconfig:"MERCHANT_ACCOUNT" required:"true"`
	SecretKey       string        `envconfig:"SECRET_KEY" required:"true"`
	DomainName      string        `envconfig:"DOMAIN_NAME" required:"true"`
	BaseURL         string        `envconfig:"BASE_URL" default:"https://api.wayforpay.com/api"`
	PaymentSystems  string        `envconfig:"PAYMENT_SYSTEMS" default:"card;googlePay;applePay;privat24"`
	Timeout         time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// Validate проверяет обязательные параметры мерчанта
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("wayforpay config: %w", domain.ErrMissingConfig)
	}
	if c.MerchantAccount == "" {
		return fmt.Errorf("wayforpay merchant_account: %w", domain.ErrMissingConfig)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("wayforpay secret_key: %w", domain.ErrMissingConfig)
	}
	if c.DomainName == "" {
		return fmt.Errorf("wayforpay domain_name: %w", domain.ErrMissingConfig)
	}
	return nil
}

func (c *Config) baseURL() string {
	if c.BaseURL == "" {
		return defaultBaseURL
	}
	return c.BaseURL
}

func (c *Config) paymentSystems() string {
	if c.PaymentSystems == "" {
		return defaultPaymentSystems
	}
	return c.PaymentSystems
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}
