package valuation

import "golang-portfolio/internal/model"

type Summary struct {
	Positions        int     `json:"positions"`
	Invested         float64 `json:"invested"`
	MarketValue      float64 `json:"market_value"`
	ProfitAmount     float64 `json:"profit_amount"`
	ProfitPercentage float64 `json:"profit_percentage"`
}

// Summarize totals the portfolio. The overall percentage is weighted by the
// money invested in each position.
func Summarize(positions []model.Position) Summary {
	var s Summary
	for _, p := range positions {
		s.Positions++
		s.Invested += Investment(p.EntryPrice, p.Quantity)
		s.MarketValue += MarketValue(p.CurrentPrice, p.Quantity)
	}
	s.ProfitAmount = s.MarketValue - s.Invested
	s.ProfitPercentage = ProfitPercentage(s.MarketValue, s.Invested)
	return s
}
