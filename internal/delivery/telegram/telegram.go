package telegram

import (
	"context"
	"fmt"

	"golang-portfolio/config"
	"golang-portfolio/internal/service"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

// TelegramBotHandler answers portfolio commands sent from the configured chat.
type TelegramBotHandler struct {
	ctx      context.Context
	cfg      *config.Config
	bot      *telebot.Bot
	log      *logger.Logger
	telegram *telegram.TelegramRateLimiter
	echo     *echo.Echo
	service  *service.Service
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	telegram *telegram.TelegramRateLimiter,
	echo *echo.Echo,
	service *service.Service) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		bot:      telegram.Bot(),
		telegram: telegram,
		echo:     echo,
		service:  service,
	}
}

// Start points the Telegram webhook at this server and registers the
// command handlers. Without a webhook URL the bot only sends alerts.
func (t *TelegramBotHandler) Start() error {
	if t.cfg.Telegram.WebhookURL == "" {
		t.log.Info("Telegram webhook is disabled")
		return nil
	}

	t.log.Info("Setting webhook URL", logger.StringField("webhook_url", t.cfg.Telegram.WebhookURL))
	err := t.bot.SetWebhook(&telebot.Webhook{
		Endpoint: &telebot.WebhookEndpoint{
			PublicURL: t.cfg.Telegram.WebhookURL,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set telegram webhook: %w", err)
	}

	t.RegisterHandlers()
	return nil
}
