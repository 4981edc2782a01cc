package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents daily OHLCV price data for a security
type PricePoint struct {
	ID         int             `json:"id"`
	SecurityID int             `json:"security_id"`
	Date       time.Time       `json:"date"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Volume     int64           `json:"volume"`
	VWAP       decimal.Decimal `json:"vwap,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// FTDPoint represents a daily failure-to-deliver record for a security.
// Value is always Quantity x Price.
type FTDPoint struct {
	ID         int             `json:"id"`
	SecurityID int             `json:"security_id"`
	Date       time.Time       `json:"date"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Value      decimal.Decimal `json:"value"`
	CreatedAt  time.Time       `json:"created_at"`
}
