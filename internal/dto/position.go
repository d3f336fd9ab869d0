package dto

import (
	"time"

	"golang-portfolio/internal/model"
	"golang-portfolio/internal/valuation"
)

// PositionRequest is the add/update form. Nil prices are filled in by the
// service: current price from a fresh quote, entry from the current price and
// stop-loss/target from the default bands.
type PositionRequest struct {
	Symbol       string   `json:"symbol" validate:"required,max=32"`
	TradeType    string   `json:"trade_type" validate:"required"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
	CurrentPrice *float64 `json:"current_price,omitempty" validate:"omitempty,gt=0"`
	EntryPrice   *float64 `json:"entry_price,omitempty" validate:"omitempty,gte=0"`
	StopLoss     *float64 `json:"stop_loss,omitempty" validate:"omitempty,gte=0"`
	Target       *float64 `json:"target,omitempty" validate:"omitempty,gte=0"`
}

// PositionView is a stored position plus the figures shown in the table.
type PositionView struct {
	ID               uint                 `json:"id"`
	Symbol           string               `json:"symbol"`
	CurrentPrice     float64              `json:"current_price"`
	EntryPrice       float64              `json:"entry_price"`
	Quantity         int                  `json:"quantity"`
	StopLoss         float64              `json:"stop_loss"`
	Target           float64              `json:"target"`
	TradeType        model.TradeType      `json:"trade_type"`
	Investment       float64              `json:"investment"`
	MarketValue      float64              `json:"market_value"`
	ProfitAmount     float64              `json:"profit_amount"`
	ProfitPercentage float64              `json:"profit_percentage"`
	BandStatus       valuation.BandStatus `json:"band_status"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func NewPositionView(p model.Position) PositionView {
	return PositionView{
		ID:               p.ID,
		Symbol:           p.Symbol,
		CurrentPrice:     p.CurrentPrice,
		EntryPrice:       p.EntryPrice,
		Quantity:         p.Quantity,
		StopLoss:         p.StopLoss,
		Target:           p.Target,
		TradeType:        p.TradeType,
		Investment:       valuation.Investment(p.EntryPrice, p.Quantity),
		MarketValue:      valuation.MarketValue(p.CurrentPrice, p.Quantity),
		ProfitAmount:     valuation.ProfitAmount(p.CurrentPrice, p.EntryPrice, p.Quantity),
		ProfitPercentage: valuation.ProfitPercentage(p.CurrentPrice, p.EntryPrice),
		BandStatus:       valuation.CheckBands(p.CurrentPrice, p.StopLoss, p.Target, p.TradeType),
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToRequest turns a stored position back into a form, the starting point of an edit.
func (v PositionView) ToRequest() PositionRequest {
	return PositionRequest{
		Symbol:       v.Symbol,
		TradeType:    v.TradeType.String(),
		Quantity:     v.Quantity,
		EntryPrice:   &v.EntryPrice,
		StopLoss:     &v.StopLoss,
		Target:       &v.Target,
		CurrentPrice: nil,
	}
}

type TradePlan struct {
	Symbol string `json:"symbol"`
	valuation.Plan
}

type RefreshFailure struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

type PriceAlert struct {
	Symbol       string               `json:"symbol"`
	TradeType    model.TradeType      `json:"trade_type"`
	Status       valuation.BandStatus `json:"status"`
	CurrentPrice float64              `json:"current_price"`
	TriggerPrice float64              `json:"trigger_price"`
	EntryPrice   float64              `json:"entry_price"`
	Timestamp    time.Time            `json:"timestamp"`
}

type RefreshResult struct {
	Updated []PositionView   `json:"updated"`
	Failed  []RefreshFailure `json:"failed,omitempty"`
	Alerts  []PriceAlert     `json:"alerts,omitempty"`
}

type PortfolioSummary struct {
	Totals    valuation.Summary `json:"totals"`
	Positions []PositionView    `json:"positions"`
}
