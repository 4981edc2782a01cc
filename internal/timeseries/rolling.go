// Package timeseries provides date-indexed series primitives: rolling-window
// statistics, exponential smoothing, and alignment of two series by date.
// Undefined values are represented as NaN and propagate through windows;
// callers drop them at output boundaries.
package timeseries

import (
	"math"
	"time"
)

// Diff returns the first difference of values. The first element is NaN.
func Diff(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// PctChange returns the simple percent change of values. The first element
// is NaN, as is any element whose predecessor is zero or NaN.
func PctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 || math.IsNaN(prev) || math.IsNaN(values[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/prev - 1
	}
	return out
}

// RollingMean returns the trailing arithmetic mean over windows of size window.
// Elements before the window is full, or whose window contains a NaN, are NaN.
func RollingMean(values []float64, window int) []float64 {
	return rollingApply(values, window, func(w []float64) float64 {
		var sum float64
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})
}

// RollingStd returns the trailing sample standard deviation (n-1 denominator)
// over windows of size window.
func RollingStd(values []float64, window int) []float64 {
	return rollingApply(values, window, func(w []float64) float64 {
		if len(w) < 2 {
			return math.NaN()
		}
		var sum float64
		for _, v := range w {
			sum += v
		}
		mean := sum / float64(len(w))
		var ss float64
		for _, v := range w {
			d := v - mean
			ss += d * d
		}
		return math.Sqrt(ss / float64(len(w)-1))
	})
}

// RollingMax returns the trailing maximum over windows of size window.
func RollingMax(values []float64, window int) []float64 {
	return rollingApply(values, window, func(w []float64) float64 {
		max := w[0]
		for _, v := range w[1:] {
			if v > max {
				max = v
			}
		}
		return max
	})
}

// RollingMin returns the trailing minimum over windows of size window.
func RollingMin(values []float64, window int) []float64 {
	return rollingApply(values, window, func(w []float64) float64 {
		min := w[0]
		for _, v := range w[1:] {
			if v < min {
				min = v
			}
		}
		return min
	})
}

// EMA returns the exponential moving average with smoothing factor
// 2/(span+1), seeded at the first value with no bias correction.
// It is defined for every index.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

func rollingApply(values []float64, window int, fn func([]float64) float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}
		out[i] = fn(w)
	}
	return out
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// InnerJoin aligns two date-indexed series on their common dates, preserving
// ascending order of the first series. Both input series must be ordered by
// date ascending with no duplicate dates.
func InnerJoin(datesA []time.Time, a []float64, datesB []time.Time, b []float64) ([]time.Time, []float64, []float64) {
	byDate := make(map[string]float64, len(datesB))
	for i, d := range datesB {
		byDate[d.Format("2006-01-02")] = b[i]
	}

	var dates []time.Time
	var av, bv []float64
	for i, d := range datesA {
		if v, ok := byDate[d.Format("2006-01-02")]; ok {
			dates = append(dates, d)
			av = append(av, a[i])
			bv = append(bv, v)
		}
	}
	return dates, av, bv
}
