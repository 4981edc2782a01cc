package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corrDates(n int) []time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.AddDate(0, 0, i)
	}
	return out
}

func TestCorrelateIdenticalSeries(t *testing.T) {
	closes := wavyCloses(30)
	dates := corrDates(30)

	stats, ok := Correlate(dates, closes, dates, closes)
	require.True(t, ok)
	assert.InDelta(t, 1.0, stats.Correlation, 1e-9)
	assert.InDelta(t, 1.0, stats.Beta, 1e-9)
	assert.InDelta(t, 1.0, stats.RSquared, 1e-9)
	// the first return is undefined, so one pair is lost
	assert.Equal(t, 29, stats.SampleSize)
}

func TestCorrelateScaledSeries(t *testing.T) {
	closes := wavyCloses(40)
	scaled := make([]float64, len(closes))
	for i, c := range closes {
		scaled[i] = 3 * c
	}
	dates := corrDates(40)

	// a constant price multiple has identical returns
	stats, ok := Correlate(dates, closes, dates, scaled)
	require.True(t, ok)
	assert.InDelta(t, 1.0, stats.Correlation, 1e-9)
	assert.InDelta(t, 1.0, stats.Beta, 1e-9)
}

func TestCorrelatePartialOverlap(t *testing.T) {
	main := wavyCloses(40)
	comp := wavyCloses(40)
	mainDates := corrDates(40)

	// comparison series starts 20 days later: only the tail overlaps
	compDates := make([]time.Time, 40)
	for i := range compDates {
		compDates[i] = mainDates[0].AddDate(0, 0, i+20)
	}

	stats, ok := Correlate(mainDates, main, compDates, comp)
	require.True(t, ok)
	assert.Equal(t, 19, stats.SampleSize)
}

func TestCorrelateInsufficientOverlap(t *testing.T) {
	main := wavyCloses(30)
	comp := wavyCloses(30)
	mainDates := corrDates(30)

	compDates := make([]time.Time, 30)
	for i := range compDates {
		compDates[i] = mainDates[0].AddDate(0, 0, i+25)
	}

	_, ok := Correlate(mainDates, main, compDates, comp)
	assert.False(t, ok)
}

func TestCorrelateDisjointDates(t *testing.T) {
	dates := corrDates(20)
	other := make([]time.Time, 20)
	for i := range other {
		other[i] = dates[0].AddDate(1, 0, i)
	}
	_, ok := Correlate(dates, wavyCloses(20), other, wavyCloses(20))
	assert.False(t, ok)
}

func TestCorrelateConstantComparison(t *testing.T) {
	dates := corrDates(30)
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 50
	}
	// zero-variance returns leave the correlation undefined
	_, ok := Correlate(dates, wavyCloses(30), dates, flat)
	assert.False(t, ok)
}

func TestCorrelateInverseSeries(t *testing.T) {
	n := 30
	dates := corrDates(n)
	up := make([]float64, n)
	down := make([]float64, n)
	up[0], down[0] = 100, 100
	for i := 1; i < n; i++ {
		r := 0.01
		if i%2 == 0 {
			r = -0.01
		}
		up[i] = up[i-1] * (1 + r)
		down[i] = down[i-1] * (1 - r)
	}

	stats, ok := Correlate(dates, up, dates, down)
	require.True(t, ok)
	assert.InDelta(t, -1.0, stats.Correlation, 1e-9)
	assert.Less(t, stats.Beta, 0.0)
	assert.InDelta(t, 1.0, stats.RSquared, 1e-9)
}
