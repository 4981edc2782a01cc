package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eshbtc/finport/internal/models"
)

// IndicatorResult is the payload of ComputeIndicators.
type IndicatorResult struct {
	Security   *models.Security              `json:"security"`
	Indicators map[string]map[string]float64 `json:"indicators"`
}

// SwapCycleResult is the payload of AnalyzeSwapCycles.
type SwapCycleResult struct {
	Security *models.Security `json:"security"`
	Cycles   []Cycle          `json:"cycles"`
	Series   []CyclePoint     `json:"series"`
}

// VolatilityResult is the payload of AnalyzeVolatilityCycles.
type VolatilityResult struct {
	Security *models.Security  `json:"security"`
	Series   []VolatilityPoint `json:"series"`
}

// CorrelationResult is the payload of ComputeCorrelations. Skipped lists the
// comparison tickers that were omitted and why; they are absent from
// Correlations but do not fail the call.
type CorrelationResult struct {
	Security     *models.Security   `json:"security"`
	Correlations []CorrelationStats `json:"correlations"`
	Skipped      []string           `json:"skipped,omitempty"`
}

// Service runs the analytics operations: each call loads its input series,
// computes, persists the derived records in one store transaction, and
// returns the payload. Recomputation over unchanged input is idempotent.
type Service struct {
	store  Store
	loader *Loader
	pub    Publisher
	log    *zap.Logger
	now    func() time.Time
}

// NewService creates a Service. pub may be nil to disable event publishing;
// log may be nil for no logging.
func NewService(store Store, pub Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  store,
		loader: NewLoader(store),
		pub:    pub,
		log:    log,
		now:    time.Now,
	}
}

// ComputeIndicators computes and persists all technical indicators for a
// ticker over an optional date range.
func (s *Service) ComputeIndicators(ctx context.Context, ticker string, from, to *time.Time) (*IndicatorResult, error) {
	sec, err := s.loader.Security(ctx, ticker)
	if err != nil {
		return nil, err
	}

	series, err := s.loader.PriceSeries(ctx, sec.ID, from, to)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: no price data for %s", ErrInsufficientData, sec.Symbol)
	}

	frame := ComputeIndicators(series)
	recs := frame.Records(sec.ID)
	if err := s.store.UpsertTechnicalIndicators(ctx, recs); err != nil {
		return nil, fmt.Errorf("%w: persisting indicators for %s: %w", ErrPersistenceFailure, sec.Symbol, err)
	}

	s.log.Info("computed indicators",
		zap.String("symbol", sec.Symbol),
		zap.Int("dates", series.Len()),
		zap.Int("records", len(recs)),
	)
	s.publish(ctx, models.EventTypeIndicatorsComputed, sec.Symbol, len(recs))

	return &IndicatorResult{Security: sec, Indicators: frame.Values()}, nil
}

// AnalyzeSwapCycles detects and persists swap cycles for a ticker over the
// trailing lookback window. Persistence deactivates all previously active
// cycles for the security before upserting the new set.
func (s *Service) AnalyzeSwapCycles(ctx context.Context, ticker string, lookbackDays int) (*SwapCycleResult, error) {
	sec, series, start, end, err := s.loadLookback(ctx, ticker, lookbackDays)
	if err != nil {
		return nil, err
	}

	ftdQty, hasFTD, err := s.loader.FTDQuantities(ctx, sec.ID, series, &start, &end)
	if err != nil {
		return nil, err
	}

	cycles, points := DetectCycles(series, ftdQty, hasFTD)
	if err := s.store.ReplaceSwapCycles(ctx, sec.ID, CycleRecords(sec.ID, cycles)); err != nil {
		return nil, fmt.Errorf("%w: persisting swap cycles for %s: %w", ErrPersistenceFailure, sec.Symbol, err)
	}

	s.log.Info("analyzed swap cycles",
		zap.String("symbol", sec.Symbol),
		zap.Int("cycles", len(cycles)),
		zap.Bool("ftd", hasFTD),
	)
	s.publish(ctx, models.EventTypeSwapCyclesComputed, sec.Symbol, len(cycles))

	return &SwapCycleResult{Security: sec, Cycles: cycles, Series: points}, nil
}

// AnalyzeVolatilityCycles classifies and persists volatility regimes and
// price-cycle phases for a ticker over the trailing lookback window.
func (s *Service) AnalyzeVolatilityCycles(ctx context.Context, ticker string, lookbackDays int) (*VolatilityResult, error) {
	sec, series, _, _, err := s.loadLookback(ctx, ticker, lookbackDays)
	if err != nil {
		return nil, err
	}

	points := ClassifyVolatility(series)
	if err := s.store.UpsertVolatilityCycles(ctx, VolatilityRecords(sec.ID, points)); err != nil {
		return nil, fmt.Errorf("%w: persisting volatility cycles for %s: %w", ErrPersistenceFailure, sec.Symbol, err)
	}

	s.log.Info("analyzed volatility cycles",
		zap.String("symbol", sec.Symbol),
		zap.Int("dates", len(points)),
	)
	s.publish(ctx, models.EventTypeVolatilityCyclesComputed, sec.Symbol, len(points))

	return &VolatilityResult{Security: sec, Series: points}, nil
}

// ComputeCorrelations computes and persists pairwise correlation statistics
// between a ticker and each comparison ticker over the trailing lookback
// window. Comparisons that cannot be computed (unknown ticker, no data,
// insufficient overlap) are skipped, not failed.
func (s *Service) ComputeCorrelations(ctx context.Context, ticker string, comparisonTickers []string, lookbackDays int) (*CorrelationResult, error) {
	sec, series, start, end, err := s.loadLookback(ctx, ticker, lookbackDays)
	if err != nil {
		return nil, err
	}

	result := &CorrelationResult{Security: sec}
	var recs []*models.MarketCorrelation

	for _, comp := range comparisonTickers {
		symbol := strings.ToUpper(strings.TrimSpace(comp))
		if symbol == "" {
			continue
		}

		compSec, err := s.store.SecurityBySymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", symbol, err)
		}
		if compSec == nil {
			s.skip(result, symbol, "unknown ticker")
			continue
		}

		compSeries, err := s.loader.PriceSeries(ctx, compSec.ID, &start, &end)
		if err != nil {
			return nil, err
		}
		if compSeries.Len() == 0 {
			s.skip(result, symbol, "no price data")
			continue
		}

		stats, ok := Correlate(series.Dates, series.Close, compSeries.Dates, compSeries.Close)
		if !ok {
			s.skip(result, symbol, "insufficient overlap")
			continue
		}
		stats.Ticker = symbol

		result.Correlations = append(result.Correlations, stats)
		recs = append(recs, &models.MarketCorrelation{
			SecurityID:         sec.ID,
			ComparedSecurityID: compSec.ID,
			Date:               end,
			PeriodDays:         lookbackDays,
			Correlation:        stats.Correlation,
			Beta:               stats.Beta,
			RSquared:           stats.RSquared,
		})
	}

	if len(recs) > 0 {
		if err := s.store.UpsertMarketCorrelations(ctx, recs); err != nil {
			return nil, fmt.Errorf("%w: persisting correlations for %s: %w", ErrPersistenceFailure, sec.Symbol, err)
		}
	}

	s.log.Info("computed correlations",
		zap.String("symbol", sec.Symbol),
		zap.Int("computed", len(result.Correlations)),
		zap.Int("skipped", len(result.Skipped)),
	)
	s.publish(ctx, models.EventTypeCorrelationsComputed, sec.Symbol, len(recs))

	return result, nil
}

// loadLookback resolves a ticker and loads its price series over the
// trailing lookback window ending today.
func (s *Service) loadLookback(ctx context.Context, ticker string, lookbackDays int) (*models.Security, *PriceSeries, time.Time, time.Time, error) {
	if lookbackDays <= 0 {
		return nil, nil, time.Time{}, time.Time{}, fmt.Errorf("%w: lookback must be positive, got %d", ErrInvalidParameter, lookbackDays)
	}

	sec, err := s.loader.Security(ctx, ticker)
	if err != nil {
		return nil, nil, time.Time{}, time.Time{}, err
	}

	end := s.now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -lookbackDays)

	series, err := s.loader.PriceSeries(ctx, sec.ID, &start, &end)
	if err != nil {
		return nil, nil, time.Time{}, time.Time{}, err
	}
	if series.Len() == 0 {
		return nil, nil, time.Time{}, time.Time{}, fmt.Errorf("%w: no price data for %s", ErrInsufficientData, sec.Symbol)
	}
	return sec, series, start, end, nil
}

func (s *Service) skip(result *CorrelationResult, symbol, reason string) {
	result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %s", symbol, reason))
	s.log.Warn("skipping comparison ticker",
		zap.String("symbol", symbol),
		zap.String("reason", reason),
	)
}

func (s *Service) publish(ctx context.Context, eventType, symbol string, records int) {
	if s.pub == nil {
		return
	}
	event := models.AnalyticsEvent{
		EventType: eventType,
		Symbol:    symbol,
		Records:   records,
		Timestamp: s.now(),
	}
	if err := s.pub.PublishAnalyticsCompleted(ctx, event); err != nil {
		s.log.Warn("failed to publish analytics event",
			zap.String("event_type", eventType),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}
}
