package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// ReplaceSwapCycles deactivates the security's active cycles and upserts the
// freshly detected set in a single transaction, so recomputation never leaves
// stale active rows behind.
func (db *DB) ReplaceSwapCycles(ctx context.Context, securityID int, cycles []*models.SwapCycle) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE swap_cycles SET is_active = false, updated_at = $2
			WHERE security_id = $1 AND is_active = true
		`, securityID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to deactivate cycles: %w", err)
		}

		if len(cycles) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO swap_cycles (security_id, cycle_type, cycle_number, start_date, end_date,
				peak_price, trough_price, volatility_score, confidence_score, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (security_id, start_date, end_date) DO UPDATE SET
				cycle_type = EXCLUDED.cycle_type,
				cycle_number = EXCLUDED.cycle_number,
				peak_price = EXCLUDED.peak_price,
				trough_price = EXCLUDED.trough_price,
				volatility_score = EXCLUDED.volatility_score,
				confidence_score = EXCLUDED.confidence_score,
				is_active = EXCLUDED.is_active,
				updated_at = EXCLUDED.updated_at
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, c := range cycles {
			volScore := sql.NullFloat64{}
			if c.VolatilityScore != nil {
				volScore = sql.NullFloat64{Float64: *c.VolatilityScore, Valid: true}
			}
			_, err := stmt.ExecContext(ctx, c.SecurityID, c.CycleType, c.CycleNumber, c.StartDate, c.EndDate,
				c.PeakPrice, c.TroughPrice, volScore, c.ConfidenceScore, c.IsActive, now, now)
			if err != nil {
				return fmt.Errorf("failed to upsert cycle %d: %w", c.CycleNumber, err)
			}
		}
		return nil
	})
}

// ActiveSwapCycles retrieves the currently active cycles for a security,
// ordered by cycle number.
func (db *DB) ActiveSwapCycles(ctx context.Context, securityID int) ([]*models.SwapCycle, error) {
	query := `
		SELECT id, security_id, cycle_type, cycle_number, start_date, end_date,
			peak_price, trough_price, volatility_score, confidence_score, is_active, created_at, updated_at
		FROM swap_cycles
		WHERE security_id = $1 AND is_active = true
		ORDER BY cycle_number ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, securityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get swap cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*models.SwapCycle
	for rows.Next() {
		var c models.SwapCycle
		var volScore sql.NullFloat64
		err := rows.Scan(&c.ID, &c.SecurityID, &c.CycleType, &c.CycleNumber, &c.StartDate, &c.EndDate,
			&c.PeakPrice, &c.TroughPrice, &volScore, &c.ConfidenceScore, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swap cycle: %w", err)
		}
		if volScore.Valid {
			v := volScore.Float64
			c.VolatilityScore = &v
		}
		cycles = append(cycles, &c)
	}

	return cycles, rows.Err()
}
