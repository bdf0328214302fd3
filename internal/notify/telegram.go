package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Telegram sends notifications to a management chat.
type Telegram struct {
	bot    *telego.Bot
	chatID int64
}

// NewTelegram creates a Telegram notifier that delivers to chatID. The bot
// instance may be shared with the interactive front end.
func NewTelegram(bot *telego.Bot, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

// Notify sends the text to the management chat. The caller bounds the call
// with a context deadline.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	_, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(t.chatID), text))
	if err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}
