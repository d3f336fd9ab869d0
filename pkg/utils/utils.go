package utils

import (
	"fmt"
	"strings"
)

func ToPointer[T any](value T) *T {
	return &value
}

// NormalizeSymbol trims and upper-cases a ticker so "tcs " and "TCS" are the same stock.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ParseStockSymbol splits "RELIANCE:BSE" into code and exchange. A bare code
// gets defaultExchange.
func ParseStockSymbol(symbol, defaultExchange string) (string, string, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return "", "", fmt.Errorf("empty stock symbol")
	}
	code, exchange, found := strings.Cut(symbol, ":")
	if !found {
		return symbol, strings.ToUpper(defaultExchange), nil
	}
	if code == "" || exchange == "" || strings.Contains(exchange, ":") {
		return "", "", fmt.Errorf("invalid stock symbol format: %s", symbol)
	}
	return code, exchange, nil
}

// CanonicalSymbol is the stored form of a symbol: the bare code on the
// default exchange, CODE:EXCHANGE anywhere else.
func CanonicalSymbol(symbol, defaultExchange string) (string, error) {
	code, exchange, err := ParseStockSymbol(symbol, defaultExchange)
	if err != nil {
		return "", err
	}
	if exchange == strings.ToUpper(strings.TrimSpace(defaultExchange)) {
		return code, nil
	}
	return code + ":" + exchange, nil
}

func FormatPercentage(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}
