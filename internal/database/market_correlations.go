package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// UpsertMarketCorrelations inserts or updates correlation rows in one
// transaction, keyed by the security pair, date and lookback period.
func (db *DB) UpsertMarketCorrelations(ctx context.Context, recs []*models.MarketCorrelation) error {
	if len(recs) == 0 {
		return nil
	}
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO market_correlations (security_id, compared_security_id, date, period_days,
				correlation, beta, r_squared, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (security_id, compared_security_id, date, period_days) DO UPDATE SET
				correlation = EXCLUDED.correlation,
				beta = EXCLUDED.beta,
				r_squared = EXCLUDED.r_squared
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, m := range recs {
			_, err := stmt.ExecContext(ctx, m.SecurityID, m.ComparedSecurityID, m.Date, m.PeriodDays,
				m.Correlation, m.Beta, m.RSquared, now)
			if err != nil {
				return fmt.Errorf("failed to upsert correlation %d/%d: %w", m.SecurityID, m.ComparedSecurityID, err)
			}
		}
		return nil
	})
}

// MarketCorrelations retrieves all correlation rows for a security on a date,
// ordered by compared security.
func (db *DB) MarketCorrelations(ctx context.Context, securityID int, date time.Time) ([]*models.MarketCorrelation, error) {
	query := `
		SELECT id, security_id, compared_security_id, date, period_days,
			correlation, beta, r_squared, created_at
		FROM market_correlations
		WHERE security_id = $1 AND date = $2
		ORDER BY compared_security_id ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, securityID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get correlations: %w", err)
	}
	defer rows.Close()

	var recs []*models.MarketCorrelation
	for rows.Next() {
		var m models.MarketCorrelation
		err := rows.Scan(&m.ID, &m.SecurityID, &m.ComparedSecurityID, &m.Date, &m.PeriodDays,
			&m.Correlation, &m.Beta, &m.RSquared, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correlation: %w", err)
		}
		recs = append(recs, &m)
	}

	return recs, rows.Err()
}
