package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// UpsertVolatilityCycles inserts or updates daily volatility classifications
// in one transaction, keyed by security and date.
func (db *DB) UpsertVolatilityCycles(ctx context.Context, recs []*models.VolatilityCycle) error {
	if len(recs) == 0 {
		return nil
	}
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO volatility_cycles (security_id, date, cycle_phase, volatility_regime,
				realized_volatility, volatility_rank, vix_correlation, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (security_id, date) DO UPDATE SET
				cycle_phase = EXCLUDED.cycle_phase,
				volatility_regime = EXCLUDED.volatility_regime,
				realized_volatility = EXCLUDED.realized_volatility,
				volatility_rank = EXCLUDED.volatility_rank,
				vix_correlation = EXCLUDED.vix_correlation
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, v := range recs {
			_, err := stmt.ExecContext(ctx, v.SecurityID, v.Date, v.CyclePhase, v.VolatilityRegime,
				v.RealizedVolatility, v.VolatilityRank, v.VIXCorrelation, now)
			if err != nil {
				return fmt.Errorf("failed to upsert volatility cycle for %s: %w", v.Date.Format("2006-01-02"), err)
			}
		}
		return nil
	})
}

// VolatilityCycles retrieves classifications for a security in a date range,
// ordered by date ascending.
func (db *DB) VolatilityCycles(ctx context.Context, securityID int, start, end time.Time) ([]*models.VolatilityCycle, error) {
	query := `
		SELECT id, security_id, date, cycle_phase, volatility_regime,
			realized_volatility, volatility_rank, vix_correlation, created_at
		FROM volatility_cycles
		WHERE security_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, securityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get volatility cycles: %w", err)
	}
	defer rows.Close()

	var recs []*models.VolatilityCycle
	for rows.Next() {
		var v models.VolatilityCycle
		err := rows.Scan(&v.ID, &v.SecurityID, &v.Date, &v.CyclePhase, &v.VolatilityRegime,
			&v.RealizedVolatility, &v.VolatilityRank, &v.VIXCorrelation, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volatility cycle: %w", err)
		}
		recs = append(recs, &v)
	}

	return recs, rows.Err()
}
