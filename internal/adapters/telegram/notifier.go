package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

// Notifier sends operational alerts to a Telegram chat. It is fire-and-log:
// a failed alert must never take down the pipeline that raised it.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	log     *logger.Logger
}

// Config contains notifier configuration
type Config struct {
	BotToken string
	ChatID   int64
}

// NewNotifier creates a Telegram alert notifier
func NewNotifier(cfg Config) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "telegram bot token is required")
	}
	if cfg.ChatID == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "telegram alert chat id is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot API")
	}

	return &Notifier{
		api:    api,
		chatID: cfg.ChatID,
		// Telegram allows ~20 msg/s per chat; alerts are rare, keep it low
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		log:     logger.Get().With("component", "telegram_notifier"),
	}, nil
}

// Alert sends a plain-text alert message
func (n *Notifier) Alert(ctx context.Context, text string) {
	if err := n.limiter.Wait(ctx); err != nil {
		n.log.Warnf("Alert dropped, rate limiter: %v", err)
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.log.Errorf("Failed to send telegram alert: %v", err)
	}
}
