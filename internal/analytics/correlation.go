package analytics

import (
	"time"

	"github.com/eshbtc/finport/internal/timeseries"
)

// minCorrelationPairs is the minimum number of aligned return pairs required
// to compute a correlation.
const minCorrelationPairs = 10

// CorrelationStats holds pairwise statistics for one comparison security.
type CorrelationStats struct {
	Ticker      string  `json:"ticker"`
	Correlation float64 `json:"correlation"`
	Beta        float64 `json:"beta"`
	RSquared    float64 `json:"r_squared"`
	SampleSize  int     `json:"sample_size"`
}

// Correlate aligns two close-price series by date (inner join), computes
// simple returns for both, and derives Pearson correlation, beta, and R².
// It returns false when fewer than minCorrelationPairs aligned return pairs
// remain, or when the correlation is undefined (a constant return series);
// such comparisons are skipped, not failed.
func Correlate(mainDates []time.Time, mainClose []float64, compDates []time.Time, compClose []float64) (CorrelationStats, bool) {
	_, main, comp := timeseries.InnerJoin(mainDates, mainClose, compDates, compClose)

	mainReturns := timeseries.PctChange(main)
	compReturns := timeseries.PctChange(comp)

	var a, b []float64
	for i := range mainReturns {
		if isFinite(mainReturns[i]) && isFinite(compReturns[i]) {
			a = append(a, mainReturns[i])
			b = append(b, compReturns[i])
		}
	}
	if len(a) < minCorrelationPairs {
		return CorrelationStats{}, false
	}

	corr := timeseries.PearsonCorr(a, b)
	if !isFinite(corr) {
		return CorrelationStats{}, false
	}

	variance := timeseries.SampleVariance(b)
	beta := 0.0
	if variance != 0 {
		beta = timeseries.SampleCovariance(a, b) / variance
	}

	return CorrelationStats{
		Correlation: corr,
		Beta:        beta,
		RSquared:    corr * corr,
		SampleSize:  len(a),
	}, true
}
