package models

import "time"

// Volatility regime constants
const (
	RegimeLow    = "low"
	RegimeMedium = "medium"
	RegimeHigh   = "high"
)

// Price-cycle phase constants
const (
	PhaseAccumulation = "accumulation"
	PhaseMarkup       = "markup"
	PhaseDistribution = "distribution"
	PhaseMarkdown     = "markdown"
	PhaseUnknown      = "unknown"
)

// CycleTypeQuarterly is the only swap-cycle type currently detected.
const CycleTypeQuarterly = "quarterly"

// SwapCycle represents a detected trough-peak-trough price segment.
// Unique per (security, start_date, end_date). Recomputation deactivates
// all prior active cycles for the security before upserting the new set.
type SwapCycle struct {
	ID              int        `json:"id"`
	SecurityID      int        `json:"security_id"`
	CycleType       string     `json:"cycle_type"`
	CycleNumber     int        `json:"cycle_number"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	PeakPrice       float64    `json:"peak_price"`
	TroughPrice     float64    `json:"trough_price"`
	VolatilityScore *float64   `json:"volatility_score,omitempty"`
	ConfidenceScore float64    `json:"confidence_score"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// VolatilityCycle represents the volatility regime and price-cycle phase
// of a security on one date. Unique per (security, date).
// VIXCorrelation is a stub, always 0.0, until a VIX series is integrated.
type VolatilityCycle struct {
	ID                 int       `json:"id"`
	SecurityID         int       `json:"security_id"`
	Date               time.Time `json:"date"`
	CyclePhase         string    `json:"cycle_phase"`
	VolatilityRegime   string    `json:"volatility_regime"`
	RealizedVolatility float64   `json:"realized_volatility"`
	VolatilityRank     float64   `json:"volatility_rank"`
	VIXCorrelation     float64   `json:"vix_correlation"`
	CreatedAt          time.Time `json:"created_at"`
}

// MarketCorrelation represents pairwise correlation statistics between two
// securities over a lookback window, keyed on the window end date.
// Directional: security vs compared, not symmetrized.
type MarketCorrelation struct {
	ID                 int       `json:"id"`
	SecurityID         int       `json:"security_id"`
	ComparedSecurityID int       `json:"compared_security_id"`
	Date               time.Time `json:"date"`
	PeriodDays         int       `json:"period_days"`
	Correlation        float64   `json:"correlation"`
	Beta               float64   `json:"beta"`
	RSquared           float64   `json:"r_squared"`
	CreatedAt          time.Time `json:"created_at"`
}
