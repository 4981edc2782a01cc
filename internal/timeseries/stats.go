package timeseries

import "math"

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// FiniteMean returns the mean of the finite values, ignoring NaN and Inf.
// NaN if no value is finite.
func FiniteMean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if isFinite(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// SampleVariance returns the sample variance (n-1 denominator).
// NaN for fewer than two values.
func SampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(values)-1)
}

// SampleCovariance returns the sample covariance of two equal-length series.
// NaN for fewer than two pairs.
func SampleCovariance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return math.NaN()
	}
	meanA := Mean(a)
	meanB := Mean(b)
	var sum float64
	for i := range a {
		sum += (a[i] - meanA) * (b[i] - meanB)
	}
	return sum / float64(len(a)-1)
}

// PearsonCorr returns the Pearson correlation coefficient of two equal-length
// series. NaN when either series is constant or has fewer than two values.
func PearsonCorr(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return math.NaN()
	}
	meanA := Mean(a)
	meanB := Mean(b)
	var num, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return num / math.Sqrt(varA*varB)
}

// PercentileRank ranks each defined value against the other defined values:
// the fraction of defined values strictly below it, over (n-1). All-tied
// values rank 0, a distinct maximum ranks 1. NaN inputs stay NaN.
func PercentileRank(values []float64) []float64 {
	var defined []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		if len(defined) < 2 {
			out[i] = 0
			continue
		}
		var below int
		for _, d := range defined {
			if d < v {
				below++
			}
		}
		out[i] = float64(below) / float64(len(defined)-1)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
