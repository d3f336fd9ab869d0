// Package valuation holds the arithmetic behind the portfolio table: money
// invested, profit, and the default stop-loss/target bands for a trade.
package valuation

import (
	"errors"
	"fmt"

	"golang-portfolio/internal/model"

	"github.com/shopspring/decimal"
)

const (
	bandNear = 0.05

	entryRangeLow  = 0.90
	entryRangeHigh = 1.10
	rangeFar       = 0.20
	rangeNear      = 0.02
)

var ErrUnknownTradeType = errors.New("unknown trade type")

type BandStatus string

const (
	InRange     BandStatus = "in_range"
	StopLossHit BandStatus = "stop_loss_hit"
	TargetHit   BandStatus = "target_hit"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Plan is what the entry form is pre-filled with after a quote is fetched.
type Plan struct {
	TradeType     model.TradeType `json:"trade_type"`
	CurrentPrice  float64         `json:"current_price"`
	EntryPrice    float64         `json:"entry_price"`
	StopLoss      float64         `json:"stop_loss"`
	Target        float64         `json:"target"`
	EntryRange    Range           `json:"entry_range"`
	StopLossRange Range           `json:"stop_loss_range"`
	TargetRange   Range           `json:"target_range"`
}

// Round2 rounds half away from zero to two decimals.
func Round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func mul(value, factor float64) float64 {
	return decimal.NewFromFloat(value).Mul(decimal.NewFromFloat(factor)).Round(2).InexactFloat64()
}

func Investment(entryPrice float64, quantity int) float64 {
	return entryPrice * float64(quantity)
}

func MarketValue(currentPrice float64, quantity int) float64 {
	return currentPrice * float64(quantity)
}

// ProfitPercentage is zero when there is no entry price to compare against.
func ProfitPercentage(currentPrice, entryPrice float64) float64 {
	if entryPrice == 0 {
		return 0
	}
	return (currentPrice - entryPrice) / entryPrice * 100
}

func ProfitAmount(currentPrice, entryPrice float64, quantity int) float64 {
	return (currentPrice - entryPrice) * float64(quantity)
}

// DefaultBands returns the suggested stop-loss and target 5% either side of
// the entry price. Bearish trades put the stop above entry.
func DefaultBands(entryPrice float64, tradeType model.TradeType) (stopLoss, target float64, err error) {
	switch tradeType {
	case model.Bullish:
		return mul(entryPrice, 1-bandNear), mul(entryPrice, 1+bandNear), nil
	case model.Bearish:
		return mul(entryPrice, 1+bandNear), mul(entryPrice, 1-bandNear), nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownTradeType, tradeType)
	}
}

// SuggestPlan derives the whole entry form from the latest quote: entry at the
// quote, default bands, and the ranges the user may pick values from.
func SuggestPlan(currentPrice float64, tradeType model.TradeType) (Plan, error) {
	entry := Round2(currentPrice)
	stopLoss, target, err := DefaultBands(entry, tradeType)
	if err != nil {
		return Plan{}, err
	}

	below := Range{Min: mul(currentPrice, 1-rangeFar), Max: mul(currentPrice, 1-rangeNear)}
	above := Range{Min: mul(currentPrice, 1+rangeNear), Max: mul(currentPrice, 1+rangeFar)}

	plan := Plan{
		TradeType:    tradeType,
		CurrentPrice: currentPrice,
		EntryPrice:   entry,
		StopLoss:     stopLoss,
		Target:       target,
		EntryRange:   Range{Min: mul(currentPrice, entryRangeLow), Max: mul(currentPrice, entryRangeHigh)},
	}
	if tradeType == model.Bullish {
		plan.StopLossRange, plan.TargetRange = below, above
	} else {
		plan.StopLossRange, plan.TargetRange = above, below
	}
	return plan, nil
}

// CheckBands reports whether the current price crossed the stop-loss or the
// target. A zero band is treated as unset.
func CheckBands(currentPrice, stopLoss, target float64, tradeType model.TradeType) BandStatus {
	if currentPrice <= 0 {
		return InRange
	}
	switch tradeType {
	case model.Bullish:
		if stopLoss > 0 && currentPrice <= stopLoss {
			return StopLossHit
		}
		if target > 0 && currentPrice >= target {
			return TargetHit
		}
	case model.Bearish:
		if stopLoss > 0 && currentPrice >= stopLoss {
			return StopLossHit
		}
		if target > 0 && currentPrice <= target {
			return TargetHit
		}
	}
	return InRange
}
