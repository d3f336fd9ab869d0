package model

import (
	"fmt"
	"strings"
	"time"
)

type TradeType string

const (
	Bullish TradeType = "Bullish"
	Bearish TradeType = "Bearish"
)

func (t TradeType) String() string {
	return string(t)
}

func (t TradeType) IsValid() bool {
	return t == Bullish || t == Bearish
}

// ParseTradeType accepts "bullish", "BEARISH", etc.
func ParseTradeType(s string) (TradeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish":
		return Bullish, nil
	case "bearish":
		return Bearish, nil
	default:
		return "", fmt.Errorf("unknown trade type %q, expected Bullish or Bearish", s)
	}
}

type Position struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Symbol       string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"symbol"`
	CurrentPrice float64   `gorm:"not null;default:0" json:"current_price"`
	EntryPrice   float64   `gorm:"not null;default:0" json:"entry_price"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	StopLoss     float64   `gorm:"not null;default:0" json:"stop_loss"`
	Target       float64   `gorm:"not null;default:0" json:"target"`
	TradeType    TradeType `gorm:"type:varchar(16);not null" json:"trade_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}
