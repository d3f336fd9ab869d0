package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-portfolio/pkg/utils"
)

// AlertType represents the type of alert
type AlertType string

const (
	TakeProfit AlertType = "TAKE_PROFIT"
	StopLoss   AlertType = "STOP_LOSS"
)

// FormatStockAlertResultForTelegram formats a crossed stop-loss or target as an HTML message.
func FormatStockAlertResultForTelegram(alertType AlertType, stockCode string, tradeType string, triggerPrice float64, targetPrice float64, entryPrice float64, timestamp int64) string {
	var builder strings.Builder

	var title, emoji string
	switch alertType {
	case TakeProfit:
		title = "Target Reached!"
		emoji = "🎯"
	case StopLoss:
		title = "Stop Loss Triggered!"
		emoji = "⚠️"
	default:
		title = "Price Alert"
		emoji = "🔔"
	}

	builder.WriteString(fmt.Sprintf("%s <b>[%s]</b> %s\n", emoji, stockCode, title))
	builder.WriteString(fmt.Sprintf("📈 Trade: %s\n", tradeType))
	builder.WriteString(fmt.Sprintf("💰 Price: %.2f (level: %.2f)\n", triggerPrice, targetPrice))
	if entryPrice > 0 {
		change := (triggerPrice - entryPrice) / entryPrice * 100
		builder.WriteString(fmt.Sprintf("🏁 Entry: %.2f (%s)\n", entryPrice, utils.FormatPercentage(change)))
	}
	builder.WriteString(fmt.Sprintf("%s\n", utils.PrettyDate(time.Unix(timestamp, 0))))
	return builder.String()
}

func FormatErrorAlertMessage(time time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(time), errType, errMsg, data)
}
