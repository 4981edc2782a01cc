package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshbtc/finport/internal/models"
)

func TestMarketCorrelationsRepository(t *testing.T) {
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

	t.Run("UpsertMarketCorrelations creates and updates", func(t *testing.T) {
		testDB.TruncateAll(t)
		mainID := newSecurity(t, "GME")
		spyID := newSecurity(t, "SPY")

		date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		first := []*models.MarketCorrelation{{
			SecurityID:         mainID,
			ComparedSecurityID: spyID,
			Date:               date,
			PeriodDays:         90,
			Correlation:        0.62,
			Beta:               1.35,
			RSquared:           0.3844,
		}}
		require.NoError(t, testDB.UpsertMarketCorrelations(ctx, first))

		second := []*models.MarketCorrelation{{
			SecurityID:         mainID,
			ComparedSecurityID: spyID,
			Date:               date,
			PeriodDays:         90,
			Correlation:        0.58,
			Beta:               1.28,
			RSquared:           0.3364,
		}}
		require.NoError(t, testDB.UpsertMarketCorrelations(ctx, second))

		got, err := testDB.MarketCorrelations(ctx, mainID, date)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, 0.58, got[0].Correlation, 1e-9)
		assert.InDelta(t, 1.28, got[0].Beta, 1e-9)
	})

	t.Run("distinct periods coexist for the same pair", func(t *testing.T) {
		testDB.TruncateAll(t)
		mainID := newSecurity(t, "GME")
		spyID := newSecurity(t, "SPY")
		qqqID := newSecurity(t, "QQQ")

		date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		recs := []*models.MarketCorrelation{
			{SecurityID: mainID, ComparedSecurityID: spyID, Date: date, PeriodDays: 30, Correlation: 0.40, Beta: 1.1, RSquared: 0.16},
			{SecurityID: mainID, ComparedSecurityID: spyID, Date: date, PeriodDays: 90, Correlation: 0.62, Beta: 1.3, RSquared: 0.38},
			{SecurityID: mainID, ComparedSecurityID: qqqID, Date: date, PeriodDays: 90, Correlation: 0.71, Beta: 1.5, RSquared: 0.50},
		}
		require.NoError(t, testDB.UpsertMarketCorrelations(ctx, recs))

		got, err := testDB.MarketCorrelations(ctx, mainID, date)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}
