package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang-portfolio/config"
	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/model"
	"golang-portfolio/internal/repository"
	"golang-portfolio/internal/service"
	"golang-portfolio/internal/valuation"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPositionService struct {
	mock.Mock
}

func (m *mockPositionService) CreatePosition(ctx context.Context, req dto.PositionRequest) (uint, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uint), args.Error(1)
}

func (m *mockPositionService) ListPositions(ctx context.Context) ([]dto.PositionView, error) {
	args := m.Called(ctx)
	views, _ := args.Get(0).([]dto.PositionView)
	return views, args.Error(1)
}

func (m *mockPositionService) GetPosition(ctx context.Context, id uint) (*dto.PositionView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*dto.PositionView)
	return view, args.Error(1)
}

func (m *mockPositionService) UpdatePosition(ctx context.Context, id uint, req dto.PositionRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockPositionService) DeletePosition(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPositionService) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	args := m.Called(ctx, symbol)
	quote, _ := args.Get(0).(*dto.Quote)
	return quote, args.Error(1)
}

func (m *mockPositionService) SuggestPlan(ctx context.Context, symbol string, tradeType string) (*dto.TradePlan, error) {
	args := m.Called(ctx, symbol, tradeType)
	plan, _ := args.Get(0).(*dto.TradePlan)
	return plan, args.Error(1)
}

func (m *mockPositionService) RefreshPrices(ctx context.Context) (*dto.RefreshResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*dto.RefreshResult)
	return result, args.Error(1)
}

func (m *mockPositionService) Summary(ctx context.Context) (*dto.PortfolioSummary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*dto.PortfolioSummary)
	return summary, args.Error(1)
}

// botAPI records the requests the bot makes to the Telegram Bot API.
type botAPI struct {
	mu       sync.Mutex
	methods  []string
	messages []map[string]interface{}
}

func (a *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var params map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&params)

	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	a.mu.Lock()
	a.methods = append(a.methods, method)
	if method == "sendMessage" {
		a.messages = append(a.messages, params)
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if method == "sendMessage" {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
}

func (a *botAPI) sent() []map[string]interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]map[string]interface{}(nil), a.messages...)
}

func newTestBot(t *testing.T) (*echo.Echo, *mockPositionService, *botAPI) {
	t.Helper()
	api := &botAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Telegram: config.TelegramConfig{
			BotToken:        "123:abc",
			ChatID:          42,
			APIURL:          srv.URL,
			TimeoutDuration: 5 * time.Second,
		},
		Scheduler: config.Scheduler{TimeoutDuration: 5 * time.Second},
		Display:   config.Display{Currency: "USD"},
	}
	log := logger.NewNop()
	bot, err := telegram.NewBot(&cfg.Telegram, log)
	require.NoError(t, err)

	svc := &mockPositionService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })

	e := echo.New()
	handler := NewTelegramBotHandler(context.Background(), cfg, log, telegram.NewTelegramRateLimiter(&cfg.Telegram, log, bot), e, &service.Service{PositionService: svc})
	handler.RegisterHandlers()
	return e, svc, api
}

func postUpdate(t *testing.T, e *echo.Echo, update string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(update))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func textUpdate(chatID int64, text string) string {
	return fmt.Sprintf(`{"update_id":1,"message":{"message_id":5,"date":0,"text":%q,"chat":{"id":%d,"type":"private"},"from":{"id":7,"first_name":"x"}}}`, text, chatID)
}

func sampleView() dto.PositionView {
	return dto.NewPositionView(model.Position{
		ID: 1, Symbol: "TCS", CurrentPrice: 110, EntryPrice: 100, Quantity: 10,
		StopLoss: 95, Target: 105, TradeType: model.Bullish,
	})
}

func TestTelegramBot_Positions(t *testing.T) {
	e, svc, api := newTestBot(t)
	view := sampleView()
	svc.On("Summary", mock.Anything).Return(&dto.PortfolioSummary{
		Totals:    valuation.Summary{Positions: 1, Invested: 1000, MarketValue: 1100, ProfitAmount: 100, ProfitPercentage: 10},
		Positions: []dto.PositionView{view},
	}, nil).Once()

	postUpdate(t, e, textUpdate(42, "/positions"))

	sent := api.sent()
	require.Len(t, sent, 1)
	text := sent[0]["text"].(string)
	assert.Contains(t, text, "<b>1. TCS</b> (Bullish) 🎯")
	assert.Contains(t, text, "Entry: $100.00 × 10")
	assert.Contains(t, text, "Current: $110.00 (+10.00%)")
	assert.Contains(t, text, "P/L $100.00 (+10.00%)")
	assert.Equal(t, "HTML", sent[0]["parse_mode"])
	assert.Contains(t, sent[0]["reply_markup"], "btn_position_detail|1")
}

func TestTelegramBot_PositionsEmpty(t *testing.T) {
	e, svc, api := newTestBot(t)
	svc.On("Summary", mock.Anything).Return(&dto.PortfolioSummary{}, nil).Once()

	postUpdate(t, e, textUpdate(42, "/positions"))

	sent := api.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "📭 No positions yet.", sent[0]["text"])
}

func TestTelegramBot_Quote(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		setup   func(svc *mockPositionService)
		wantMsg string
	}{
		{
			name: "price",
			text: "/quote tcs",
			setup: func(svc *mockPositionService) {
				svc.On("GetQuote", mock.Anything, "tcs").Return(&dto.Quote{Symbol: "TCS", Price: 3512.45}, nil).Once()
			},
			wantMsg: "💰 <b>TCS</b> $3,512.45",
		},
		{
			name:    "missing symbol",
			text:    "/quote",
			setup:   func(svc *mockPositionService) {},
			wantMsg: "Usage: /quote SYMBOL",
		},
		{
			name: "quote failure is reported",
			text: "/quote nope",
			setup: func(svc *mockPositionService) {
				svc.On("GetQuote", mock.Anything, "nope").
					Return(nil, fmt.Errorf("%w: %w", service.ErrPriceNotFetched, repository.ErrQuoteNotFound)).Once()
			},
			wantMsg: "❌ fetch current price first: quote not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, svc, api := newTestBot(t)
			tt.setup(svc)

			postUpdate(t, e, textUpdate(42, tt.text))

			sent := api.sent()
			require.Len(t, sent, 1)
			assert.Equal(t, tt.wantMsg, sent[0]["text"])
		})
	}
}

func TestTelegramBot_Plan(t *testing.T) {
	e, svc, api := newTestBot(t)
	plan, err := valuation.SuggestPlan(1000, model.Bearish)
	require.NoError(t, err)
	svc.On("SuggestPlan", mock.Anything, "tcs", "Bearish").Return(&dto.TradePlan{Symbol: "TCS", Plan: plan}, nil).Once()

	postUpdate(t, e, textUpdate(42, "/plan tcs Bearish"))

	sent := api.sent()
	require.Len(t, sent, 1)
	text := sent[0]["text"].(string)
	assert.Contains(t, text, "<b>TCS</b> Bearish plan at $1,000.00")
	assert.Contains(t, text, "Stop loss: $1,050.00 ($1,020.00 – $1,200.00)")
}

func TestTelegramBot_Refresh(t *testing.T) {
	e, svc, api := newTestBot(t)
	svc.On("RefreshPrices", mock.Anything).Return(&dto.RefreshResult{
		Updated: []dto.PositionView{sampleView()},
		Failed:  []dto.RefreshFailure{{Symbol: "INFY", Error: "quote not found"}},
		Alerts:  []dto.PriceAlert{{Symbol: "TCS", Status: valuation.TargetHit, CurrentPrice: 110, TriggerPrice: 105}},
	}, nil).Once()

	postUpdate(t, e, textUpdate(42, "/refresh"))

	sent := api.sent()
	require.Len(t, sent, 1)
	assert.Equal(t,
		"🔄 Refreshed 1 position(s).\n❌ <b>INFY</b>: quote not found\n🎯 <b>TCS</b> at $110.00 (level $105.00)",
		sent[0]["text"])
}

func TestTelegramBot_PositionDetailButton(t *testing.T) {
	e, svc, api := newTestBot(t)
	view := sampleView()
	svc.On("GetPosition", mock.Anything, uint(1)).Return(&view, nil).Once()

	postUpdate(t, e, `{"update_id":2,"callback_query":{"id":"cb1","from":{"id":7,"first_name":"x"},"message":{"message_id":9,"date":0,"chat":{"id":42,"type":"private"}},"data":"\fbtn_position_detail|1"}}`)

	sent := api.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0]["text"], "📄 <b>TCS</b> #1 (Bullish)")
	assert.Contains(t, sent[0]["text"], "Stop loss: $95.00")
}

func TestTelegramBot_IgnoresOtherChats(t *testing.T) {
	e, _, api := newTestBot(t)

	postUpdate(t, e, textUpdate(99, "/positions"))

	assert.Empty(t, api.sent())
}

func TestTelegramBot_UnknownText(t *testing.T) {
	e, _, api := newTestBot(t)

	postUpdate(t, e, textUpdate(42, "hello"))

	sent := api.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "I don't know that command. Send /help to see what I can do.", sent[0]["text"])
}

func TestTelegramBot_BadPayload(t *testing.T) {
	e, _, api := newTestBot(t)

	req := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, api.sent())
}
