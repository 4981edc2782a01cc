package analytics

import (
	"context"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// Store is the persistence contract the analytics engines depend on.
// Implementations must run each batch write in a single transaction so a
// partial failure rolls back the whole batch, and must upsert by natural key
// so recomputation never duplicates rows.
//
// SecurityBySymbol returns (nil, nil) when the symbol is unknown; an error
// return always means the store itself failed.
type Store interface {
	SecurityBySymbol(ctx context.Context, symbol string) (*models.Security, error)
	PriceSeries(ctx context.Context, securityID int, start, end *time.Time) ([]*models.PricePoint, error)
	FTDSeries(ctx context.Context, securityID int, start, end *time.Time) ([]*models.FTDPoint, error)

	UpsertTechnicalIndicators(ctx context.Context, recs []*models.TechnicalIndicator) error
	ReplaceSwapCycles(ctx context.Context, securityID int, cycles []*models.SwapCycle) error
	UpsertVolatilityCycles(ctx context.Context, recs []*models.VolatilityCycle) error
	UpsertMarketCorrelations(ctx context.Context, recs []*models.MarketCorrelation) error
}

// Publisher notifies downstream consumers that an analytics run has been
// persisted. A nil Publisher disables publishing.
type Publisher interface {
	PublishAnalyticsCompleted(ctx context.Context, event models.AnalyticsEvent) error
}
