package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// PriceSeries is a date-indexed view of a security's price history, ordered
// by date ascending with no duplicate dates. Missing trading days are simply
// absent; nothing is gap-filled.
type PriceSeries struct {
	Dates  []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
	VWAP   []float64
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int { return len(s.Dates) }

// Loader resolves tickers and materializes aligned series from the store.
type Loader struct {
	store Store
}

// NewLoader creates a Loader backed by store.
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Security resolves a ticker symbol (case-insensitive) to a security.
// Returns ErrNotFound when the store does not know the symbol.
func (l *Loader) Security(ctx context.Context, ticker string) (*models.Security, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty ticker", ErrInvalidParameter)
	}

	sec, err := l.store.SecurityBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", symbol, err)
	}
	if sec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return sec, nil
}

// PriceSeries loads the ordered price series for a security. An empty series
// is not an error; callers treat it as insufficient data.
func (l *Loader) PriceSeries(ctx context.Context, securityID int, start, end *time.Time) (*PriceSeries, error) {
	points, err := l.store.PriceSeries(ctx, securityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading price series: %w", err)
	}

	s := &PriceSeries{
		Dates:  make([]time.Time, len(points)),
		Open:   make([]float64, len(points)),
		High:   make([]float64, len(points)),
		Low:    make([]float64, len(points)),
		Close:  make([]float64, len(points)),
		Volume: make([]float64, len(points)),
		VWAP:   make([]float64, len(points)),
	}
	for i, p := range points {
		s.Dates[i] = p.Date
		s.Open[i], _ = p.Open.Float64()
		s.High[i], _ = p.High.Float64()
		s.Low[i], _ = p.Low.Float64()
		s.Close[i], _ = p.Close.Float64()
		s.Volume[i] = float64(p.Volume)
		s.VWAP[i], _ = p.VWAP.Float64()
	}
	return s, nil
}

// FTDQuantities loads the FTD series for a security and aligns the daily
// quantities to the price series dates, defaulting to 0 where absent.
// The second return reports whether any FTD record exists in range.
func (l *Loader) FTDQuantities(ctx context.Context, securityID int, prices *PriceSeries, start, end *time.Time) ([]float64, bool, error) {
	points, err := l.store.FTDSeries(ctx, securityID, start, end)
	if err != nil {
		return nil, false, fmt.Errorf("loading ftd series: %w", err)
	}

	byDate := make(map[string]float64, len(points))
	for _, p := range points {
		byDate[p.Date.Format("2006-01-02")] = float64(p.Quantity)
	}

	quantities := make([]float64, prices.Len())
	for i, d := range prices.Dates {
		quantities[i] = byDate[d.Format("2006-01-02")]
	}
	return quantities, len(points) > 0, nil
}
