package telegram

import (
	"fmt"
	"html"
	"strings"

	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/valuation"
	"golang-portfolio/pkg/utils"
)

func (t *TelegramBotHandler) money(amount float64) string {
	return utils.FormatMoney(amount, t.cfg.Display.Currency)
}

func statusIcon(status valuation.BandStatus) string {
	switch status {
	case valuation.TargetHit:
		return " 🎯"
	case valuation.StopLossHit:
		return " ⚠️"
	default:
		return ""
	}
}

func (t *TelegramBotHandler) formatPortfolio(summary *dto.PortfolioSummary) string {
	sb := strings.Builder{}
	sb.WriteString("📊 <b>Your positions</b>\n\n")

	for idx, p := range summary.Positions {
		sb.WriteString(fmt.Sprintf("<b>%d. %s</b> (%s)%s\n", idx+1, html.EscapeString(p.Symbol), p.TradeType, statusIcon(p.BandStatus)))
		sb.WriteString(fmt.Sprintf("  • Entry: %s × %d\n", t.money(p.EntryPrice), p.Quantity))
		sb.WriteString(fmt.Sprintf("  • Current: %s (%s)\n", t.money(p.CurrentPrice), utils.FormatPercentage(p.ProfitPercentage)))
		sb.WriteString(fmt.Sprintf("  • SL: %s | TP: %s\n\n", t.money(p.StopLoss), t.money(p.Target)))
	}

	totals := summary.Totals
	sb.WriteString(fmt.Sprintf("💼 Invested %s · Value %s\n", t.money(totals.Invested), t.money(totals.MarketValue)))
	sb.WriteString(fmt.Sprintf("📈 P/L %s (%s)", t.money(totals.ProfitAmount), utils.FormatPercentage(totals.ProfitPercentage)))
	return sb.String()
}

func (t *TelegramBotHandler) formatPositionDetail(p dto.PositionView) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("📄 <b>%s</b> #%d (%s)%s\n\n", html.EscapeString(p.Symbol), p.ID, p.TradeType, statusIcon(p.BandStatus)))
	sb.WriteString(fmt.Sprintf("Current: %s\n", t.money(p.CurrentPrice)))
	sb.WriteString(fmt.Sprintf("Entry: %s × %d\n", t.money(p.EntryPrice), p.Quantity))
	sb.WriteString(fmt.Sprintf("Invested: %s\n", t.money(p.Investment)))
	sb.WriteString(fmt.Sprintf("Stop loss: %s\n", t.money(p.StopLoss)))
	sb.WriteString(fmt.Sprintf("Target: %s\n", t.money(p.Target)))
	sb.WriteString(fmt.Sprintf("P/L: %s (%s)", t.money(p.ProfitAmount), utils.FormatPercentage(p.ProfitPercentage)))
	if !p.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("\nUpdated: %s", utils.PrettyDate(p.UpdatedAt)))
	}
	return sb.String()
}

func (t *TelegramBotHandler) formatPlan(p dto.TradePlan) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("🧭 <b>%s</b> %s plan at %s\n\n", html.EscapeString(p.Symbol), p.TradeType, t.money(p.CurrentPrice)))
	sb.WriteString(fmt.Sprintf("Entry: %s (%s – %s)\n", t.money(p.EntryPrice), t.money(p.EntryRange.Min), t.money(p.EntryRange.Max)))
	sb.WriteString(fmt.Sprintf("Stop loss: %s (%s – %s)\n", t.money(p.StopLoss), t.money(p.StopLossRange.Min), t.money(p.StopLossRange.Max)))
	sb.WriteString(fmt.Sprintf("Target: %s (%s – %s)", t.money(p.Target), t.money(p.TargetRange.Min), t.money(p.TargetRange.Max)))
	return sb.String()
}

func (t *TelegramBotHandler) formatRefresh(result dto.RefreshResult) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("🔄 Refreshed %d position(s).", len(result.Updated)))
	for _, f := range result.Failed {
		sb.WriteString(fmt.Sprintf("\n❌ <b>%s</b>: %s", html.EscapeString(f.Symbol), html.EscapeString(f.Error)))
	}
	for _, a := range result.Alerts {
		sb.WriteString(fmt.Sprintf("\n%s <b>%s</b> at %s (level %s)", strings.TrimSpace(statusIcon(a.Status)), html.EscapeString(a.Symbol), t.money(a.CurrentPrice), t.money(a.TriggerPrice)))
	}
	return sb.String()
}
