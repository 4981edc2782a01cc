package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestFiniteMean(t *testing.T) {
	assert.InDelta(t, 2.0, FiniteMean([]float64{1, math.NaN(), 3}), 1e-9)
	assert.InDelta(t, 2.0, FiniteMean([]float64{1, math.Inf(1), 3}), 1e-9)
	assert.True(t, math.IsNaN(FiniteMean([]float64{math.NaN(), math.NaN()})))
}

func TestSampleVariance(t *testing.T) {
	// sample variance of {2, 4, 6} is 4
	assert.InDelta(t, 4.0, SampleVariance([]float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, SampleVariance([]float64{5, 5, 5}), 1e-9)
	assert.True(t, math.IsNaN(SampleVariance([]float64{1})))
}

func TestSampleCovariance(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{2, 4, 6, 8}
	// cov(a, 2a) = 2 * var(a); var(a) = 5/3
	assert.InDelta(t, 2*SampleVariance(a), SampleCovariance(a, b), 1e-9)

	assert.True(t, math.IsNaN(SampleCovariance([]float64{1}, []float64{2})))
	assert.True(t, math.IsNaN(SampleCovariance([]float64{1, 2}, []float64{1})))
}

func TestPearsonCorr(t *testing.T) {
	t.Run("perfect positive correlation", func(t *testing.T) {
		a := []float64{1, 2, 3, 4, 5}
		b := []float64{10, 20, 30, 40, 50}
		assert.InDelta(t, 1.0, PearsonCorr(a, b), 1e-9)
	})

	t.Run("perfect negative correlation", func(t *testing.T) {
		a := []float64{1, 2, 3, 4, 5}
		b := []float64{5, 4, 3, 2, 1}
		assert.InDelta(t, -1.0, PearsonCorr(a, b), 1e-9)
	})

	t.Run("constant series is undefined", func(t *testing.T) {
		assert.True(t, math.IsNaN(PearsonCorr([]float64{1, 2, 3}, []float64{7, 7, 7})))
	})

	t.Run("too short is undefined", func(t *testing.T) {
		assert.True(t, math.IsNaN(PearsonCorr([]float64{1}, []float64{2})))
	})
}

func TestPercentileRank(t *testing.T) {
	t.Run("distinct values span zero to one", func(t *testing.T) {
		out := PercentileRank([]float64{10, 20, 30, 40, 50})
		assert.InDelta(t, 0.0, out[0], 1e-9)
		assert.InDelta(t, 0.25, out[1], 1e-9)
		assert.InDelta(t, 0.5, out[2], 1e-9)
		assert.InDelta(t, 0.75, out[3], 1e-9)
		assert.InDelta(t, 1.0, out[4], 1e-9)
	})

	t.Run("all tied values rank zero", func(t *testing.T) {
		out := PercentileRank([]float64{3, 3, 3, 3})
		for _, v := range out {
			assert.InDelta(t, 0.0, v, 1e-9)
		}
	})

	t.Run("NaN stays NaN and is excluded from ranking", func(t *testing.T) {
		out := PercentileRank([]float64{10, math.NaN(), 20, 30})
		assert.True(t, math.IsNaN(out[1]))
		assert.InDelta(t, 0.0, out[0], 1e-9)
		assert.InDelta(t, 0.5, out[2], 1e-9)
		assert.InDelta(t, 1.0, out[3], 1e-9)
	})

	t.Run("single defined value ranks zero", func(t *testing.T) {
		out := PercentileRank([]float64{math.NaN(), 42})
		assert.True(t, math.IsNaN(out[0]))
		assert.InDelta(t, 0.0, out[1], 1e-9)
	})
}
