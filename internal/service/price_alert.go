package service

import (
	"context"
	"fmt"
	"time"

	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/model"
	"golang-portfolio/internal/valuation"
	"golang-portfolio/pkg/common"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"

	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"
)

type quoteResult struct {
	price float64
	err   error
}

// RefreshPrices fetches a quote for every position, stores the new current
// prices and alerts on crossed stop-loss or target levels. A failed quote is
// reported for its symbol and leaves that row unchanged.
func (s *positionService) RefreshPrices(ctx context.Context) (*dto.RefreshResult, error) {
	positions, err := s.positionRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	quotes := make([]quoteResult, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Quote.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.Quote.MaxConcurrency)
	}
	for i, p := range positions {
		i, p := i, p
		g.Go(func() error {
			price, err := s.quoteRepository.GetPrice(gctx, p.Symbol)
			quotes[i] = quoteResult{price: price, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &dto.RefreshResult{
		Updated: []dto.PositionView{},
	}
	for i, p := range positions {
		q := quotes[i]
		q.price = valuation.Round2(q.price)
		if q.err == nil && q.price <= 0 {
			q.err = fmt.Errorf("non-positive price %v", q.price)
		}
		if q.err != nil {
			s.log.WarnContext(ctx, "Failed to refresh price", logger.StringField("symbol", p.Symbol), logger.ErrorField(q.err))
			result.Failed = append(result.Failed, dto.RefreshFailure{Symbol: p.Symbol, Error: q.err.Error()})
			continue
		}

		if err := s.positionRepository.UpdateCurrentPrice(ctx, p.ID, q.price); err != nil {
			s.log.ErrorContext(ctx, "Failed to store price", logger.StringField("symbol", p.Symbol), logger.ErrorField(err))
			result.Failed = append(result.Failed, dto.RefreshFailure{Symbol: p.Symbol, Error: err.Error()})
			continue
		}
		p.CurrentPrice = q.price
		result.Updated = append(result.Updated, dto.NewPositionView(p))

		if alert, ok := s.evaluateAlert(p); ok {
			result.Alerts = append(result.Alerts, alert)
			s.sendPriceAlert(ctx, alert)
		}
	}

	s.log.InfoContext(ctx, "Prices refreshed",
		logger.IntField("updated", len(result.Updated)),
		logger.IntField("failed", len(result.Failed)),
		logger.IntField("alerts", len(result.Alerts)))
	return result, nil
}

func (s *positionService) evaluateAlert(p model.Position) (dto.PriceAlert, bool) {
	status := valuation.CheckBands(p.CurrentPrice, p.StopLoss, p.Target, p.TradeType)
	if status == valuation.InRange {
		return dto.PriceAlert{}, false
	}

	trigger := p.Target
	if status == valuation.StopLossHit {
		trigger = p.StopLoss
	}
	return dto.PriceAlert{
		Symbol:       p.Symbol,
		TradeType:    p.TradeType,
		Status:       status,
		CurrentPrice: p.CurrentPrice,
		TriggerPrice: trigger,
		EntryPrice:   p.EntryPrice,
		Timestamp:    time.Now(),
	}, true
}

// sendPriceAlert notifies once per symbol and alert type until the dedupe
// entry expires.
func (s *positionService) sendPriceAlert(ctx context.Context, alert dto.PriceAlert) {
	alertType := telegram.TakeProfit
	if alert.Status == valuation.StopLossHit {
		alertType = telegram.StopLoss
	}

	key := fmt.Sprintf(common.KEY_STOCK_PRICE_ALERT, alertType, alert.Symbol)
	if _, found := s.inmemoryCache.Get(key); found {
		s.log.DebugContext(ctx, "Skip resend alert", logger.StringField("symbol", alert.Symbol), logger.StringField("alert_type", string(alertType)))
		return
	}

	message := telegram.FormatStockAlertResultForTelegram(
		alertType,
		alert.Symbol,
		alert.TradeType.String(),
		alert.CurrentPrice,
		alert.TriggerPrice,
		alert.EntryPrice,
		alert.Timestamp.Unix(),
	)
	if err := s.notifier.SendMessage(ctx, message, telebot.ModeHTML); err != nil {
		s.log.ErrorContext(ctx, "Failed to send alert", logger.StringField("symbol", alert.Symbol), logger.ErrorField(err))
		return
	}

	s.log.DebugContext(ctx, "Send alert", logger.StringField("symbol", alert.Symbol), logger.StringField("alert_type", string(alertType)))
	s.inmemoryCache.Set(key, alert.CurrentPrice, s.cfg.Cache.AlertExpiration)
}
