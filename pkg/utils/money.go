package utils

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney displays amount in the given ISO currency, e.g. "₹1,234.50".
// An unknown currency falls back to a bare two-decimal number.
func FormatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%.2f", amount)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	if minor < 0 {
		return "-" + money.New(-minor, cur.Code).Display()
	}
	return money.New(minor, cur.Code).Display()
}
