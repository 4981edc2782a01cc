package models

import "time"

// Indicator name constants
const (
	IndicatorSMA20      = "sma_20"
	IndicatorSMA50      = "sma_50"
	IndicatorSMA200     = "sma_200"
	IndicatorEMA12      = "ema_12"
	IndicatorEMA26      = "ema_26"
	IndicatorMACD       = "macd"
	IndicatorMACDSignal = "macd_signal"
	IndicatorMACDHist   = "macd_histogram"
	IndicatorRSI        = "rsi"
	IndicatorBBUpper    = "bb_upper"
	IndicatorBBMiddle   = "bb_middle"
	IndicatorBBLower    = "bb_lower"
)

// Signal constants. An empty signal is stored as NULL.
const (
	SignalBuy  = "buy"
	SignalSell = "sell"
	SignalHold = "hold"
)

// TimeframeDaily is the only timeframe currently computed.
const TimeframeDaily = "1d"

// TechnicalIndicator represents a derived indicator value for one security
// on one date. Unique per (security, date, indicator, timeframe).
type TechnicalIndicator struct {
	ID            int       `json:"id"`
	SecurityID    int       `json:"security_id"`
	Date          time.Time `json:"date"`
	IndicatorName string    `json:"indicator_name"`
	Value         float64   `json:"value"`
	Signal        string    `json:"signal,omitempty"`
	Timeframe     string    `json:"timeframe"`
	CreatedAt     time.Time `json:"created_at"`
}
