// Package cache provides a Redis caching decorator for the persistence layer.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eshbtc/finport/internal/analytics"
	"github.com/eshbtc/finport/internal/models"
)

// Store is the full persistence surface the decorator wraps: the analytics
// read/write contract plus the ingestion upserts that invalidate it.
type Store interface {
	analytics.Store
	CreateSecurity(ctx context.Context, s *models.Security) error
	UpsertPricePoints(ctx context.Context, points []*models.PricePoint) error
	UpsertFTDPoints(ctx context.Context, points []*models.FTDPoint) error
}

// CachingStore decorates a Store with read-through Redis caching of price
// and FTD series. Ingestion upserts pass through and invalidate the affected
// security's cached series; everything else is delegated untouched. A nil
// Redis client disables caching entirely.
type CachingStore struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachingStore decorates a Store with Redis caching.
// If ttl is 0, it defaults to 5 minutes.
func NewCachingStore(rdb *redis.Client, ttl time.Duration, inner Store) *CachingStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingStore{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

// PriceSeries retrieves price points, checking cache first then falling back
// to the database.
func (c *CachingStore) PriceSeries(ctx context.Context, securityID int, start, end *time.Time) ([]*models.PricePoint, error) {
	if c.rdb == nil {
		return c.inner.PriceSeries(ctx, securityID, start, end)
	}

	key := seriesKey("prices", securityID, start, end)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []*models.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.PriceSeries(ctx, securityID, start, end)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FTDSeries retrieves FTD points, checking cache first then falling back to
// the database.
func (c *CachingStore) FTDSeries(ctx context.Context, securityID int, start, end *time.Time) ([]*models.FTDPoint, error) {
	if c.rdb == nil {
		return c.inner.FTDSeries(ctx, securityID, start, end)
	}

	key := seriesKey("ftd", securityID, start, end)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []*models.FTDPoint
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FTDSeries(ctx, securityID, start, end)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// UpsertPricePoints writes through and invalidates cached price series for
// the affected securities.
func (c *CachingStore) UpsertPricePoints(ctx context.Context, points []*models.PricePoint) error {
	if err := c.inner.UpsertPricePoints(ctx, points); err != nil {
		return err
	}
	invalidateSeries(ctx, c, "prices", points, func(p *models.PricePoint) int { return p.SecurityID })
	return nil
}

// UpsertFTDPoints writes through and invalidates cached FTD series for the
// affected securities.
func (c *CachingStore) UpsertFTDPoints(ctx context.Context, points []*models.FTDPoint) error {
	if err := c.inner.UpsertFTDPoints(ctx, points); err != nil {
		return err
	}
	invalidateSeries(ctx, c, "ftd", points, func(f *models.FTDPoint) int { return f.SecurityID })
	return nil
}

func (c *CachingStore) SecurityBySymbol(ctx context.Context, symbol string) (*models.Security, error) {
	return c.inner.SecurityBySymbol(ctx, symbol)
}

func (c *CachingStore) CreateSecurity(ctx context.Context, s *models.Security) error {
	return c.inner.CreateSecurity(ctx, s)
}

func (c *CachingStore) UpsertTechnicalIndicators(ctx context.Context, recs []*models.TechnicalIndicator) error {
	return c.inner.UpsertTechnicalIndicators(ctx, recs)
}

func (c *CachingStore) ReplaceSwapCycles(ctx context.Context, securityID int, cycles []*models.SwapCycle) error {
	return c.inner.ReplaceSwapCycles(ctx, securityID, cycles)
}

func (c *CachingStore) UpsertVolatilityCycles(ctx context.Context, recs []*models.VolatilityCycle) error {
	return c.inner.UpsertVolatilityCycles(ctx, recs)
}

func (c *CachingStore) UpsertMarketCorrelations(ctx context.Context, recs []*models.MarketCorrelation) error {
	return c.inner.UpsertMarketCorrelations(ctx, recs)
}

// invalidateSeries removes cached series for each distinct security in the
// batch. Best effort: a cache miss on deletion never fails the write.
func invalidateSeries[T any](ctx context.Context, c *CachingStore, kind string, points []T, secID func(T) int) {
	if c.rdb == nil || len(points) == 0 {
		return
	}
	seen := map[int]struct{}{}
	for _, p := range points {
		id := secID(p)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		_ = c.deleteByPattern(ctx, fmt.Sprintf("%s:%d:*", kind, id))
	}
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingStore) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

func seriesKey(kind string, securityID int, start, end *time.Time) string {
	return fmt.Sprintf("%s:%d:%s:%s", kind, securityID, boundKey(start), boundKey(end))
}

func boundKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
