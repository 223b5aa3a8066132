package alerter

// Config алерты в Telegram включаются только при заданном BOT_TOKEN
type Config struct {
	BotToken        string `envconfig:"BOT_TOKEN"`
	ChatID          int64  `envconfig:"CHAT_ID"`
	MessageThreadID *int64 `envconfig:"MESSAGE_THREAD_ID"`
}

// IsEnabled заданы ли токен бота и чат для алертов
func (c *Config) IsEnabled() bool {
	return c != nil && c.BotToken != "" && c.ChatID != 0
}
