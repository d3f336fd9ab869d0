package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/repository"
	"golang-portfolio/internal/service"
	"golang-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

const WebhookPath = "/api/v1/telegram/webhook"

var btnPositionDetail = telebot.Btn{Unique: "btn_position_detail"}

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		timeout := t.cfg.Scheduler.TimeoutDuration
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		ctx, cancel := context.WithTimeout(t.ctx, timeout)
		defer cancel()

		return handler(ctx, c)
	}
}

// onlyConfiguredChat drops updates from every chat except the alert chat.
func (t *TelegramBotHandler) onlyConfiguredChat(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if c.Chat() == nil || c.Chat().ID != t.cfg.Telegram.ChatID {
			var chatID int64
			if c.Chat() != nil {
				chatID = c.Chat().ID
			}
			t.log.Warn("Ignoring telegram update from unknown chat", logger.Field("chat_id", chatID))
			return nil
		}
		return next(c)
	}
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.echo.POST(WebhookPath, func(c echo.Context) error {
		var update telebot.Update
		if err := c.Bind(&update); err != nil {
			t.log.ErrorContext(t.ctx, "Cannot bind JSON", logger.ErrorField(err))
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
		t.bot.ProcessUpdate(update)
		return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "ok", nil))
	})

	t.bot.Use(t.onlyConfiguredChat)
	t.bot.Handle("/start", t.WithContext(t.handleHelp))
	t.bot.Handle("/help", t.WithContext(t.handleHelp))
	t.bot.Handle("/positions", t.WithContext(t.handlePositions))
	t.bot.Handle("/quote", t.WithContext(t.handleQuote))
	t.bot.Handle("/plan", t.WithContext(t.handlePlan))
	t.bot.Handle("/refresh", t.WithContext(t.handleRefresh))
	t.bot.Handle(&btnPositionDetail, t.WithContext(t.handleBtnPositionDetail))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleTextMessage))
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	message := `👋 <b>Portfolio bot</b>

/positions - all positions with profit/loss
/quote SYMBOL - current price of a stock
/plan SYMBOL [Bullish|Bearish] - suggested entry, stop loss and target
/refresh - fetch prices for every position and check the bands
/help - this message`
	return t.telegram.Reply(ctx, c, message, telebot.ModeHTML)
}

func (t *TelegramBotHandler) handleTextMessage(ctx context.Context, c telebot.Context) error {
	return t.telegram.Reply(ctx, c, "I don't know that command. Send /help to see what I can do.")
}

// replyError reports user-facing failures in the chat and only passes
// unexpected errors on to the bot error handler.
func (t *TelegramBotHandler) replyError(ctx context.Context, c telebot.Context, err error) error {
	message := "❌ " + html.EscapeString(err.Error())
	if sendErr := t.telegram.Reply(ctx, c, message, telebot.ModeHTML); sendErr != nil {
		return sendErr
	}

	switch {
	case errors.Is(err, repository.ErrPositionNotFound),
		errors.Is(err, service.ErrPriceNotFetched),
		errors.Is(err, service.ErrSymbolRequired),
		errors.Is(err, service.ErrTradeTypeRequired),
		errors.Is(err, service.ErrInvalidRequest):
		return nil
	default:
		return err
	}
}

func (t *TelegramBotHandler) handlePositions(ctx context.Context, c telebot.Context) error {
	summary, err := t.service.PositionService.Summary(ctx)
	if err != nil {
		return t.replyError(ctx, c, err)
	}

	if len(summary.Positions) == 0 {
		return t.telegram.Reply(ctx, c, "📭 No positions yet.")
	}

	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	var tempRow []telebot.Btn
	for _, position := range summary.Positions {
		tempRow = append(tempRow, menu.Data(position.Symbol, btnPositionDetail.Unique, strconv.FormatUint(uint64(position.ID), 10)))
		if len(tempRow) == 3 {
			rows = append(rows, menu.Row(tempRow...))
			tempRow = nil
		}
	}
	if len(tempRow) > 0 {
		rows = append(rows, menu.Row(tempRow...))
	}
	menu.Inline(rows...)

	return t.telegram.Reply(ctx, c, t.formatPortfolio(summary), menu, telebot.ModeHTML)
}

func (t *TelegramBotHandler) handleBtnPositionDetail(ctx context.Context, c telebot.Context) error {
	_ = c.Respond()

	id, err := strconv.ParseUint(c.Data(), 10, 64)
	if err != nil {
		return t.telegram.Reply(ctx, c, "❌ Invalid position.")
	}

	view, err := t.service.PositionService.GetPosition(ctx, uint(id))
	if err != nil {
		return t.replyError(ctx, c, err)
	}
	return t.telegram.Reply(ctx, c, t.formatPositionDetail(*view), telebot.ModeHTML)
}

func (t *TelegramBotHandler) handleQuote(ctx context.Context, c telebot.Context) error {
	symbol := strings.TrimSpace(c.Message().Payload)
	if symbol == "" {
		return t.telegram.Reply(ctx, c, "Usage: /quote SYMBOL")
	}

	quote, err := t.service.PositionService.GetQuote(ctx, symbol)
	if err != nil {
		return t.replyError(ctx, c, err)
	}
	return t.telegram.Reply(ctx, c, fmt.Sprintf("💰 <b>%s</b> %s", html.EscapeString(quote.Symbol), t.money(quote.Price)), telebot.ModeHTML)
}

func (t *TelegramBotHandler) handlePlan(ctx context.Context, c telebot.Context) error {
	args := c.Args()
	if len(args) == 0 {
		return t.telegram.Reply(ctx, c, "Usage: /plan SYMBOL [Bullish|Bearish]")
	}
	tradeType := "Bullish"
	if len(args) > 1 {
		tradeType = args[1]
	}

	plan, err := t.service.PositionService.SuggestPlan(ctx, args[0], tradeType)
	if err != nil {
		return t.replyError(ctx, c, err)
	}
	return t.telegram.Reply(ctx, c, t.formatPlan(*plan), telebot.ModeHTML)
}

func (t *TelegramBotHandler) handleRefresh(ctx context.Context, c telebot.Context) error {
	result, err := t.service.PositionService.RefreshPrices(ctx)
	if err != nil {
		return t.replyError(ctx, c, err)
	}
	return t.telegram.Reply(ctx, c, t.formatRefresh(*result), telebot.ModeHTML)
}
