package notify

import (
	"context"

	"github.com/bot-api/telegram"
)

// Telegram sends events as bot messages to a single chat.
type Telegram struct {
	api    *telegram.API
	chatID int64
}

func NewTelegram(token string, chatID int64) *Telegram {
	return &Telegram{api: telegram.New(token), chatID: chatID}
}

func (t *Telegram) Notify(ctx *context.Context, message string) error {
	_, err := t.api.SendMessage(*ctx, telegram.NewMessage(t.chatID, message))
	return err
}
