package telegram

import (
	"context"
	"fmt"
	"net/http"

	"golang-portfolio/config"
	"golang-portfolio/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Notifier delivers a text message to the configured chat.
type Notifier interface {
	SendMessage(ctx context.Context, message string, opts ...interface{}) error
}

// NewBot builds a bot that only talks to the API on demand. Updates arrive
// through the webhook and are handled inline.
func NewBot(cfg *config.TelegramConfig, log *logger.Logger) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		URL:         cfg.APIURL,
		Token:       cfg.BotToken,
		Offline:     true,
		Synchronous: true,
		Client:      &http.Client{Timeout: cfg.TimeoutDuration},
		OnError: func(err error, c telebot.Context) {
			log.Error("Telegram bot error", logger.ErrorField(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// NewNotifier returns a telegram-backed notifier, or one that drops every
// message when no bot token or chat id is configured.
func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger) (Notifier, error) {
	if !cfg.Enabled() {
		log.Debug("Telegram alerts disabled")
		return NopNotifier{}, nil
	}

	bot, err := NewBot(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewTelegramRateLimiter(cfg, log, bot), nil
}

type NopNotifier struct{}

func (NopNotifier) SendMessage(ctx context.Context, message string, opts ...interface{}) error {
	return nil
}

type TelegramRateLimiter struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	globalLimiter *rate.Limiter
	bot           *telebot.Bot
}

func NewTelegramRateLimiter(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *TelegramRateLimiter {
	limit := rate.Inf
	burst := 1
	if cfg.MaxGlobalRequestPerSecond > 0 {
		limit = rate.Limit(cfg.MaxGlobalRequestPerSecond)
		burst = cfg.MaxGlobalRequestPerSecond
	}
	return &TelegramRateLimiter{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(limit, burst),
	}
}

// SendMessage sends to the configured chat, waiting for the global limiter first.
func (t *TelegramRateLimiter) SendMessage(ctx context.Context, message string, opts ...interface{}) error {
	if err := t.globalLimiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}

	if _, err := t.bot.Send(&telebot.Chat{ID: t.cfg.ChatID}, message, opts...); err != nil {
		t.log.ErrorContext(ctx, "Failed to send message", logger.ErrorField(err))
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Reply answers the chat of an incoming update, sharing the global limiter
// with outgoing alerts.
func (t *TelegramRateLimiter) Reply(ctx context.Context, c telebot.Context, message string, opts ...interface{}) error {
	if err := t.globalLimiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}

	if err := c.Send(message, opts...); err != nil {
		t.log.ErrorContext(ctx, "Failed to reply", logger.ErrorField(err))
		return fmt.Errorf("telegram reply: %w", err)
	}
	return nil
}

func (t *TelegramRateLimiter) Bot() *telebot.Bot {
	return t.bot
}
