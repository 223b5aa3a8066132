package payment

import "time"

const (
	defaultSweepInterval     = 15 * time.Second
	defaultIdleBackoff       = 5 * time.Second
	defaultLookback          = 1000 * time.Second
	defaultAwaitPollInterval = 5 * time.Second
	defaultAwaitTimeout      = 20 * time.Minute
	defaultSweepConcurrency  = 4
	defaultOutcomeTTL        = 24 * time.Hour
	defaultAlertCooldown     = 15 * time.Minute
	defaultCurrency          = "UAH"
)

type Config struct {
	SweepInterval     time.Duration `envconfig:"SWEEP_INTERVAL" default:"15s"`
	IdleBackoff       time.Duration `envconfig:"IDLE_BACKOFF" default:"5s"`
	Lookback          time.Duration `envconfig:"LOOKBACK" default:"1000s"` // запас окна назад от даты заказа, на расхождение часов шлюза
	AwaitPollInterval time.Duration `envconfig:"AWAIT_POLL_INTERVAL" default:"5s"`
	AwaitTimeout      time.Duration `envconfig:"AWAIT_TIMEOUT" default:"1200s"`
	SweepConcurrency  int           `envconfig:"SWEEP_CONCURRENCY" default:"4"`
	OutcomeTTL        time.Duration `envconfig:"OUTCOME_TTL" default:"24h"`
	Currency          string        `envconfig:"CURRENCY" default:"UAH"`
	AlertCooldown     time.Duration `envconfig:"ALERT_COOLDOWN" default:"15m"` // не чаще одного алерта сверки за период
}

// GetSweepInterval пауза между полными проходами сверки
func (c *Config) GetSweepInterval() time.Duration {
	if c == nil || c.SweepInterval <= 0 {
		return defaultSweepInterval
	}
	return c.SweepInterval
}

// GetIdleBackoff пауза, когда ожидающих заказов нет
func (c *Config) GetIdleBackoff() time.Duration {
	if c == nil || c.IdleBackoff <= 0 {
		return defaultIdleBackoff
	}
	return c.IdleBackoff
}

// GetAlertCooldown минимальный интервал между алертами о сбоях сверки
func (c *Config) GetAlertCooldown() time.Duration {
	if c == nil || c.AlertCooldown <= 0 {
		return defaultAlertCooldown
	}
	return c.AlertCooldown
}

func (c *Config) lookbackSeconds() int64 {
	if c == nil || c.Lookback <= 0 {
		return int64(defaultLookback / time.Second)
	}
	return int64(c.Lookback / time.Second)
}

func (c *Config) awaitPollInterval() time.Duration {
	if c == nil || c.AwaitPollInterval <= 0 {
		return defaultAwaitPollInterval
	}
	return c.AwaitPollInterval
}

func (c *Config) awaitTimeout() time.Duration {
	if c == nil || c.AwaitTimeout <= 0 {
		return defaultAwaitTimeout
	}
	return c.AwaitTimeout
}

func (c *Config) sweepConcurrency() int {
	if c == nil || c.SweepConcurrency <= 0 {
		return defaultSweepConcurrency
	}
	return c.SweepConcurrency
}

func (c *Config) outcomeTTL() time.Duration {
	if c == nil || c.OutcomeTTL <= 0 {
		return defaultOutcomeTTL
	}
	return c.OutcomeTTL
}

func (c *Config) currency() string {
	if c == nil || c.Currency == "" {
		return defaultCurrency
	}
	return c.Currency
}
