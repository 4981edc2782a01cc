package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Market-data event type constants
const (
	EventTypePriceBar  = "PRICE_BAR"
	EventTypeFTDRecord = "FTD_RECORD"
)

// Analytics event type constants
const (
	EventTypeIndicatorsComputed       = "INDICATORS_COMPUTED"
	EventTypeSwapCyclesComputed       = "SWAP_CYCLES_COMPUTED"
	EventTypeVolatilityCyclesComputed = "VOLATILITY_CYCLES_COMPUTED"
	EventTypeCorrelationsComputed     = "CORRELATIONS_COMPUTED"
)

// MarketDataEvent is a Kafka event carrying one validated per-date price bar
// or FTD record for ingestion. Date is a calendar date, formatted 2006-01-02.
type MarketDataEvent struct {
	EventType string          `json:"event_type"`
	Symbol    string          `json:"symbol"`
	Date      string          `json:"date"`
	Open      decimal.Decimal `json:"open,omitempty"`
	High      decimal.Decimal `json:"high,omitempty"`
	Low       decimal.Decimal `json:"low,omitempty"`
	Close     decimal.Decimal `json:"close,omitempty"`
	Volume    int64           `json:"volume,omitempty"`
	VWAP      decimal.Decimal `json:"vwap,omitempty"`
	Quantity  int64           `json:"quantity,omitempty"`
	Price     decimal.Decimal `json:"price,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// AnalyticsEvent is published after an analytics run has been persisted.
type AnalyticsEvent struct {
	EventType string    `json:"event_type"`
	Symbol    string    `json:"symbol"`
	Records   int       `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}
