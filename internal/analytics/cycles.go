package analytics

import (
	"math"
	"time"

	"github.com/eshbtc/finport/internal/models"
	"github.com/eshbtc/finport/internal/timeseries"
)

const (
	extremaWindow = 20
	tradingDays   = 252

	// Placeholder until a real confidence model exists.
	defaultConfidenceScore = 0.7
)

// Cycle is a closed trough-peak-trough price segment with its statistics.
type Cycle struct {
	StartDate  time.Time `json:"start_date"`
	PeakDate   time.Time `json:"peak_date"`
	EndDate    time.Time `json:"end_date"`
	StartPrice float64   `json:"start_price"`
	PeakPrice  float64   `json:"peak_price"`
	EndPrice   float64   `json:"end_price"`

	DurationDays int `json:"duration_days"`

	// Return is peak/start - 1; Drawdown is end/peak - 1.
	Return   float64 `json:"return"`
	Drawdown float64 `json:"drawdown"`

	// Volatility is the mean annualized 20-period volatility over the cycle
	// window; nil when no window inside the cycle is fully populated.
	Volatility *float64 `json:"volatility,omitempty"`

	// FTDCorrelation is the Pearson correlation between close price and FTD
	// quantity inside the cycle; nil when the FTD series is absent or either
	// side is constant.
	FTDCorrelation *float64 `json:"ftd_correlation,omitempty"`
}

// CyclePoint is one date of the analyzed series with its cycle annotations.
type CyclePoint struct {
	Date        time.Time `json:"date"`
	Close       float64   `json:"close"`
	FTDQuantity float64   `json:"ftd_quantity"`
	Volatility  float64   `json:"volatility,omitempty"`
	IsPeak      bool      `json:"is_peak"`
	IsTrough    bool      `json:"is_trough"`
}

// DetectCycles segments a price series into swap cycles.
//
// A date is a peak when its close equals the trailing 20-period maximum and
// strictly exceeds both neighbors; a trough is symmetric with the minimum.
// A cycle opens at a trough (the series start seeds the first cycle), records
// the latest peak seen while open, and closes at the next trough after a peak
// has been recorded, which also opens the next cycle. A trough arriving
// before any peak restarts the open cycle there. A series ending with an open
// cycle that has a recorded peak closes it at the final point.
func DetectCycles(s *PriceSeries, ftdQty []float64, hasFTD bool) ([]Cycle, []CyclePoint) {
	n := s.Len()
	if n == 0 {
		return nil, nil
	}

	closes := s.Close
	vol := annualizedVolatility(closes, extremaWindow)
	rmax := timeseries.RollingMax(closes, extremaWindow)
	rmin := timeseries.RollingMin(closes, extremaWindow)

	points := make([]CyclePoint, n)
	for i := 0; i < n; i++ {
		p := CyclePoint{Date: s.Dates[i], Close: closes[i], Volatility: vol[i]}
		if ftdQty != nil {
			p.FTDQuantity = ftdQty[i]
		}
		if i > 0 && i < n-1 {
			p.IsPeak = closes[i] == rmax[i] && closes[i] > closes[i-1] && closes[i] > closes[i+1]
			p.IsTrough = closes[i] == rmin[i] && closes[i] < closes[i-1] && closes[i] < closes[i+1]
		}
		points[i] = p
	}

	var cycles []Cycle
	startIdx := 0
	peakIdx := -1
	for i, p := range points {
		switch {
		case p.IsPeak:
			peakIdx = i
		case p.IsTrough && peakIdx < 0:
			// No peak yet: restart the open cycle at this trough.
			startIdx = i
		case p.IsTrough:
			cycles = append(cycles, closeCycle(s, points, ftdQty, hasFTD, startIdx, peakIdx, i))
			startIdx = i
			peakIdx = -1
		}
	}
	if peakIdx >= 0 && startIdx < n-1 {
		cycles = append(cycles, closeCycle(s, points, ftdQty, hasFTD, startIdx, peakIdx, n-1))
	}

	return cycles, points
}

func closeCycle(s *PriceSeries, points []CyclePoint, ftdQty []float64, hasFTD bool, startIdx, peakIdx, endIdx int) Cycle {
	c := Cycle{
		StartDate:    s.Dates[startIdx],
		PeakDate:     s.Dates[peakIdx],
		EndDate:      s.Dates[endIdx],
		StartPrice:   s.Close[startIdx],
		PeakPrice:    s.Close[peakIdx],
		EndPrice:     s.Close[endIdx],
		DurationDays: int(s.Dates[endIdx].Sub(s.Dates[startIdx]).Hours() / 24),
		Return:       s.Close[peakIdx]/s.Close[startIdx] - 1,
		Drawdown:     s.Close[endIdx]/s.Close[peakIdx] - 1,
	}

	window := make([]float64, 0, endIdx-startIdx+1)
	for i := startIdx; i <= endIdx; i++ {
		window = append(window, points[i].Volatility)
	}
	if v := timeseries.FiniteMean(window); isFinite(v) {
		c.Volatility = &v
	}

	if hasFTD && ftdQty != nil {
		corr := timeseries.PearsonCorr(s.Close[startIdx:endIdx+1], ftdQty[startIdx:endIdx+1])
		if isFinite(corr) {
			c.FTDCorrelation = &corr
		}
	}
	return c
}

// annualizedVolatility is the rolling sample stdev of simple returns scaled
// to a 252-trading-day year.
func annualizedVolatility(closes []float64, window int) []float64 {
	returns := timeseries.PctChange(closes)
	vol := timeseries.RollingStd(returns, window)
	factor := math.Sqrt(tradingDays)
	for i, v := range vol {
		vol[i] = v * factor
	}
	return vol
}

// CycleRecords materializes detected cycles into persistable rows.
// CycleNumber is the 1-based order within this detection run.
func CycleRecords(securityID int, cycles []Cycle) []*models.SwapCycle {
	recs := make([]*models.SwapCycle, len(cycles))
	for i, c := range cycles {
		recs[i] = &models.SwapCycle{
			SecurityID:      securityID,
			CycleType:       models.CycleTypeQuarterly,
			CycleNumber:     i + 1,
			StartDate:       c.StartDate,
			EndDate:         c.EndDate,
			PeakPrice:       c.PeakPrice,
			TroughPrice:     c.EndPrice,
			VolatilityScore: c.Volatility,
			ConfidenceScore: defaultConfidenceScore,
			IsActive:        true,
		}
	}
	return recs
}
