package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshbtc/finport/internal/models"
)

func TestTechnicalIndicatorsRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)
	ctx := context.Background()

	newSecurity := func(t *testing.T, symbol string) int {
		t.Helper()
		sec := &models.Security{Symbol: symbol, Type: models.SecurityTypeStock}
		require.NoError(t, testDB.CreateSecurity(ctx, sec))
		return sec.ID
	}

	t.Run("UpsertTechnicalIndicators creates records", func(t *testing.T) {
		testDB.TruncateAll(t)
		secID := newSecurity(t, "AAPL")

		date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		recs := []*models.TechnicalIndicator{
			{SecurityID: secID, Date: date, IndicatorName: models.IndicatorSMA20, Value: 175.32, Timeframe: models.TimeframeDaily},
			{SecurityID: secID, Date: date, IndicatorName: models.IndicatorRSI, Value: 72.5, Signal: models.SignalSell, Timeframe: models.TimeframeDaily},
		}

		require.NoError(t, testDB.UpsertTechnicalIndicators(ctx, recs))

		got, err := testDB.IndicatorsByDate(ctx, secID, date)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("UpsertTechnicalIndicators updates on conflict", func(t *testing.T) {
		testDB.TruncateAll(t)
		secID := newSecurity(t, "AAPL")

		date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		first := []*models.TechnicalIndicator{
			{SecurityID: secID, Date: date, IndicatorName: models.IndicatorRSI, Value: 45.0, Signal: models.SignalHold, Timeframe: models.TimeframeDaily},
		}
		require.NoError(t, testDB.UpsertTechnicalIndicators(ctx, first))

		second := []*models.TechnicalIndicator{
			{SecurityID: secID, Date: date, IndicatorName: models.IndicatorRSI, Value: 28.0, Signal: models.SignalBuy, Timeframe: models.TimeframeDaily},
		}
		require.NoError(t, testDB.UpsertTechnicalIndicators(ctx, second))

		got, err := testDB.GetIndicator(ctx, secID, date, models.IndicatorRSI, models.TimeframeDaily)
		require.NoError(t, err)
		assert.InDelta(t, 28.0, got.Value, 1e-9)
		assert.Equal(t, models.SignalBuy, got.Signal)

		// Still exactly one row
		all, err := testDB.IndicatorsByDate(ctx, secID, date)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("empty signal stored as NULL", func(t *testing.T) {
		testDB.TruncateAll(t)
		secID := newSecurity(t, "MSFT")

		date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		recs := []*models.TechnicalIndicator{
			{SecurityID: secID, Date: date, IndicatorName: models.IndicatorSMA50, Value: 380.12, Timeframe: models.TimeframeDaily},
		}
		require.NoError(t, testDB.UpsertTechnicalIndicators(ctx, recs))

		var count int
		err := testDB.GetRawConn().QueryRow(
			"SELECT COUNT(*) FROM technical_indicators WHERE security_id = $1 AND signal IS NULL", secID,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := testDB.GetIndicator(ctx, secID, date, models.IndicatorSMA50, models.TimeframeDaily)
		require.NoError(t, err)
		assert.Equal(t, "", got.Signal)
	})

	t.Run("IndicatorHistory returns newest first", func(t *testing.T) {
		testDB.TruncateAll(t)
		secID := newSecurity(t, "NVDA")

		var recs []*models.TechnicalIndicator
		for i := 0; i < 5; i++ {
			recs = append(recs, &models.TechnicalIndicator{
				SecurityID:    secID,
				Date:          time.Date(2024, 1, 15+i, 0, 0, 0, 0, time.UTC),
				IndicatorName: models.IndicatorEMA12,
				Value:         450.0 + float64(i),
				Timeframe:     models.TimeframeDaily,
			})
		}
		require.NoError(t, testDB.UpsertTechnicalIndicators(ctx, recs))

		hist, err := testDB.IndicatorHistory(ctx, secID, models.IndicatorEMA12, 3)
		require.NoError(t, err)
		require.Len(t, hist, 3)
		assert.Equal(t, 19, hist[0].Date.Day())
		assert.InDelta(t, 454.0, hist[0].Value, 1e-9)
	})
}
