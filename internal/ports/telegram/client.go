package telegram

import (
	"context"
)

// IClient интерфейс для клиента Telegram API (используется только для алертов)
type IClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageToThread(ctx context.Context, chatID int64, threadID *int64, text string) error
}
