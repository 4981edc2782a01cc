package analytics

import (
	"math"
	"time"

	"github.com/eshbtc/finport/internal/models"
	"github.com/eshbtc/finport/internal/timeseries"
)

const phaseSMAWindow = 50

// VolatilityPoint is one classified date: realized volatility, its percentile
// rank within the analyzed range, the regime bucket, and the price-cycle
// phase. Only dates where both the volatility window and the 50-period SMA
// are populated are emitted.
type VolatilityPoint struct {
	Date               time.Time `json:"date"`
	Close              float64   `json:"close"`
	Return             float64   `json:"return"`
	RealizedVolatility float64   `json:"realized_volatility"`
	VolatilityRank     float64   `json:"volatility_rank"`
	Regime             string    `json:"volatility_regime"`
	Phase              string    `json:"cycle_phase"`
}

// ClassifyVolatility computes per-date realized volatility, percentile rank,
// regime, and price-cycle phase for a price series. The rank is relative to
// the volatility values of the analyzed range itself, not a fixed benchmark.
func ClassifyVolatility(s *PriceSeries) []VolatilityPoint {
	closes := s.Close
	returns := timeseries.PctChange(closes)
	vol := annualizedVolatility(closes, extremaWindow)
	rank := timeseries.PercentileRank(vol)
	sma := timeseries.RollingMean(closes, phaseSMAWindow)

	var out []VolatilityPoint
	for i := range closes {
		if !isFinite(vol[i]) || math.IsNaN(sma[i]) {
			continue
		}
		regime := regimeFor(rank[i])
		out = append(out, VolatilityPoint{
			Date:               s.Dates[i],
			Close:              closes[i],
			Return:             returns[i],
			RealizedVolatility: vol[i],
			VolatilityRank:     rank[i],
			Regime:             regime,
			Phase:              phaseFor(closes[i] > sma[i], regime),
		})
	}
	return out
}

func regimeFor(rank float64) string {
	switch {
	case rank <= 0.25:
		return models.RegimeLow
	case rank >= 0.75:
		return models.RegimeHigh
	default:
		return models.RegimeMedium
	}
}

func phaseFor(aboveSMA bool, regime string) string {
	if aboveSMA {
		switch regime {
		case models.RegimeLow:
			return models.PhaseAccumulation
		case models.RegimeMedium:
			return models.PhaseMarkup
		default:
			return models.PhaseDistribution
		}
	}
	if regime == models.RegimeMedium || regime == models.RegimeHigh {
		return models.PhaseMarkdown
	}
	return models.PhaseUnknown
}

// VolatilityRecords materializes classified points into persistable rows.
// VIX correlation is a fixed 0.0 stub pending an external VIX series.
func VolatilityRecords(securityID int, points []VolatilityPoint) []*models.VolatilityCycle {
	recs := make([]*models.VolatilityCycle, len(points))
	for i, p := range points {
		recs[i] = &models.VolatilityCycle{
			SecurityID:         securityID,
			Date:               p.Date,
			CyclePhase:         p.Phase,
			VolatilityRegime:   p.Regime,
			RealizedVolatility: p.RealizedVolatility,
			VolatilityRank:     p.VolatilityRank,
			VIXCorrelation:     0.0,
		}
	}
	return recs
}
