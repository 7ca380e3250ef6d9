package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// Sender delivers rendered briefings to a single Telegram chat.
type Sender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

var _ ports.MessageSender = (*Sender)(nil)

// NewSender authenticates against the Bot API. Missing credentials surface
// here, at first use, rather than at startup.
func NewSender(cfg config.TelegramConfig) (*Sender, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram bot token or chat id is not configured")
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", cfg.ChatID, err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Sender{api: api, chatID: chatID}, nil
}

// Send posts an HTML-formatted message and returns the transport's verdict.
// The Bot API client carries its own timeout; ctx is honored up front only.
func (s *Sender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
