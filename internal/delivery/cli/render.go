// Package cli formats positions for the terminal: markdown tables with money
// columns, rendered through glamour unless plain output is requested.
package cli

import (
	"fmt"
	"strings"

	"golang-portfolio/config"
	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/valuation"
	"golang-portfolio/pkg/utils"

	"github.com/charmbracelet/glamour"
)

type Renderer struct {
	currency string
	style    string
	width    int
	plain    bool
}

func NewRenderer(cfg config.Display, plain bool) *Renderer {
	return &Renderer{
		currency: cfg.Currency,
		style:    cfg.Style,
		width:    cfg.Width,
		plain:    plain,
	}
}

// Render turns markdown into terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	if r.plain {
		return markdown, nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(r.width)}
	if r.style == "" || r.style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return renderer.Render(markdown)
}

func (r *Renderer) money(amount float64) string {
	return utils.FormatMoney(amount, r.currency)
}

// PositionsTable is the portfolio table followed by the totals line.
func (r *Renderer) PositionsTable(views []dto.PositionView, totals valuation.Summary) string {
	if len(views) == 0 {
		return "_No positions yet. Add one with `add --symbol SYMBOL --type Bullish`._\n"
	}

	var b strings.Builder
	b.WriteString("| ID | Symbol | Current | Entry | Qty | Invested | Stop Loss | Target | Type | P/L % |\n")
	b.WriteString("|---:|:---|---:|---:|---:|---:|---:|---:|:---|---:|\n")
	for _, v := range views {
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d | %s | %s | %s | %s | %s |\n",
			v.ID,
			v.Symbol,
			r.money(v.CurrentPrice),
			r.money(v.EntryPrice),
			v.Quantity,
			r.money(v.Investment),
			r.money(v.StopLoss),
			r.money(v.Target),
			v.TradeType,
			strings.TrimSpace(utils.FormatPercentage(v.ProfitPercentage)+" "+bandMarker(v.BandStatus)),
		))
	}

	b.WriteString(fmt.Sprintf("\n**%d positions** · invested %s · value %s · P/L %s (%s)\n",
		totals.Positions,
		r.money(totals.Invested),
		r.money(totals.MarketValue),
		r.money(totals.ProfitAmount),
		utils.FormatPercentage(totals.ProfitPercentage),
	))
	return b.String()
}

func bandMarker(status valuation.BandStatus) string {
	switch status {
	case valuation.StopLossHit:
		return "⚠️"
	case valuation.TargetHit:
		return "🎯"
	default:
		return ""
	}
}

func (r *Renderer) PositionDetail(v dto.PositionView) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## %s (#%d)\n\n", v.Symbol, v.ID))
	b.WriteString(fmt.Sprintf("- Type: %s\n", v.TradeType))
	b.WriteString(fmt.Sprintf("- Current price: %s\n", r.money(v.CurrentPrice)))
	b.WriteString(fmt.Sprintf("- Entry price: %s\n", r.money(v.EntryPrice)))
	b.WriteString(fmt.Sprintf("- Quantity: %d\n", v.Quantity))
	b.WriteString(fmt.Sprintf("- Invested: %s\n", r.money(v.Investment)))
	b.WriteString(fmt.Sprintf("- Market value: %s\n", r.money(v.MarketValue)))
	b.WriteString(fmt.Sprintf("- Stop loss: %s\n", r.money(v.StopLoss)))
	b.WriteString(fmt.Sprintf("- Target: %s\n", r.money(v.Target)))
	b.WriteString(fmt.Sprintf("- P/L: %s (%s)\n", r.money(v.ProfitAmount), utils.FormatPercentage(v.ProfitPercentage)))
	b.WriteString(fmt.Sprintf("- Status: %s\n", v.BandStatus))
	if !v.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("- Updated: %s\n", utils.PrettyDate(v.UpdatedAt)))
	}
	return b.String()
}

func (r *Renderer) Plan(p dto.TradePlan) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## %s %s plan at %s\n\n", p.Symbol, p.TradeType, r.money(p.CurrentPrice)))
	b.WriteString("| | Suggested | Range |\n")
	b.WriteString("|:---|---:|:---|\n")
	b.WriteString(fmt.Sprintf("| Entry | %s | %s – %s |\n", r.money(p.EntryPrice), r.money(p.EntryRange.Min), r.money(p.EntryRange.Max)))
	b.WriteString(fmt.Sprintf("| Stop loss | %s | %s – %s |\n", r.money(p.StopLoss), r.money(p.StopLossRange.Min), r.money(p.StopLossRange.Max)))
	b.WriteString(fmt.Sprintf("| Target | %s | %s – %s |\n", r.money(p.Target), r.money(p.TargetRange.Min), r.money(p.TargetRange.Max)))
	return b.String()
}

func (r *Renderer) RefreshReport(result dto.RefreshResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Refreshed %d position(s).\n", len(result.Updated)))
	for _, f := range result.Failed {
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", f.Symbol, f.Error))
	}
	for _, a := range result.Alerts {
		b.WriteString(fmt.Sprintf("- %s **%s** %s at %s (level %s)\n",
			bandMarker(a.Status),
			a.Symbol, a.Status, r.money(a.CurrentPrice), r.money(a.TriggerPrice)))
	}
	return b.String()
}
