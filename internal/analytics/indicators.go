package analytics

import (
	"math"
	"time"

	"github.com/eshbtc/finport/internal/models"
	"github.com/eshbtc/finport/internal/timeseries"
)

// indicatorNames lists every computed indicator in persistence order.
var indicatorNames = []string{
	models.IndicatorSMA20,
	models.IndicatorSMA50,
	models.IndicatorSMA200,
	models.IndicatorEMA12,
	models.IndicatorEMA26,
	models.IndicatorMACD,
	models.IndicatorMACDSignal,
	models.IndicatorMACDHist,
	models.IndicatorRSI,
	models.IndicatorBBUpper,
	models.IndicatorBBMiddle,
	models.IndicatorBBLower,
}

// IndicatorFrame holds every computed indicator column, NaN where an
// indicator is not computable for a date. NaN values never leave the frame:
// Values and Records emit finite entries only.
type IndicatorFrame struct {
	Dates   []time.Time
	Columns map[string][]float64
}

// ComputeIndicators computes all technical indicators for a price series.
// Indicators whose window is not fully populated for a date are NaN there.
func ComputeIndicators(s *PriceSeries) *IndicatorFrame {
	closes := s.Close
	cols := make(map[string][]float64, len(indicatorNames))

	cols[models.IndicatorSMA20] = timeseries.RollingMean(closes, 20)
	cols[models.IndicatorSMA50] = timeseries.RollingMean(closes, 50)
	cols[models.IndicatorSMA200] = timeseries.RollingMean(closes, 200)

	ema12 := timeseries.EMA(closes, 12)
	ema26 := timeseries.EMA(closes, 26)
	cols[models.IndicatorEMA12] = ema12
	cols[models.IndicatorEMA26] = ema26

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = ema12[i] - ema26[i]
	}
	signal := timeseries.EMA(macd, 9)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}
	cols[models.IndicatorMACD] = macd
	cols[models.IndicatorMACDSignal] = signal
	cols[models.IndicatorMACDHist] = hist

	cols[models.IndicatorRSI] = rsi(closes, 14)

	mid := cols[models.IndicatorSMA20]
	std := timeseries.RollingStd(closes, 20)
	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = mid[i] + 2*std[i]
		lower[i] = mid[i] - 2*std[i]
	}
	cols[models.IndicatorBBUpper] = upper
	cols[models.IndicatorBBMiddle] = mid
	cols[models.IndicatorBBLower] = lower

	return &IndicatorFrame{Dates: s.Dates, Columns: cols}
}

// rsi computes the relative strength index from simple rolling means of
// gains and losses. Dates where the average loss is zero are left NaN:
// RS is undefined there and the value is skipped rather than pinned at 100.
func rsi(closes []float64, period int) []float64 {
	deltas := timeseries.Diff(closes)
	gains := make([]float64, len(deltas))
	losses := make([]float64, len(deltas))
	for i, d := range deltas {
		if math.IsNaN(d) {
			gains[i] = math.NaN()
			losses[i] = math.NaN()
			continue
		}
		if d > 0 {
			gains[i] = d
		}
		if d < 0 {
			losses[i] = -d
		}
	}

	avgGain := timeseries.RollingMean(gains, period)
	avgLoss := timeseries.RollingMean(losses, period)

	out := make([]float64, len(closes))
	for i := range out {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) || avgLoss[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// Values returns indicator name -> date (2006-01-02) -> value, finite
// values only.
func (f *IndicatorFrame) Values() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(indicatorNames))
	for _, name := range indicatorNames {
		col := f.Columns[name]
		values := make(map[string]float64)
		for i, v := range col {
			if isFinite(v) {
				values[f.Dates[i].Format("2006-01-02")] = v
			}
		}
		out[name] = values
	}
	return out
}

// Records materializes the frame into persistable rows, one per computable
// (date, indicator) pair. Indeterminate values are omitted, not stored null.
func (f *IndicatorFrame) Records(securityID int) []*models.TechnicalIndicator {
	var recs []*models.TechnicalIndicator
	for i := range f.Dates {
		for _, name := range indicatorNames {
			v := f.Columns[name][i]
			if !isFinite(v) {
				continue
			}
			recs = append(recs, &models.TechnicalIndicator{
				SecurityID:    securityID,
				Date:          f.Dates[i],
				IndicatorName: name,
				Value:         v,
				Signal:        f.signalAt(name, i),
				Timeframe:     models.TimeframeDaily,
			})
		}
	}
	return recs
}

// signalAt assigns the buy/sell/hold signal for one indicator value.
// Only RSI and the MACD histogram carry signals.
func (f *IndicatorFrame) signalAt(name string, i int) string {
	switch name {
	case models.IndicatorRSI:
		v := f.Columns[name][i]
		switch {
		case v > 70:
			return models.SignalSell
		case v < 30:
			return models.SignalBuy
		default:
			return models.SignalHold
		}
	case models.IndicatorMACDHist:
		cur := f.Columns[name][i]
		if i == 0 {
			return models.SignalHold
		}
		prev := f.Columns[name][i-1]
		switch {
		case isFinite(prev) && prev < 0 && cur >= 0:
			return models.SignalBuy
		case isFinite(prev) && prev > 0 && cur < 0:
			return models.SignalSell
		default:
			return models.SignalHold
		}
	}
	return ""
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
