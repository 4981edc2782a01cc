package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// UpsertTechnicalIndicators inserts or updates indicator records in one
// transaction, overwriting value and signal in place on key conflict.
func (db *DB) UpsertTechnicalIndicators(ctx context.Context, recs []*models.TechnicalIndicator) error {
	if len(recs) == 0 {
		return nil
	}
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO technical_indicators (security_id, date, indicator_name, value, signal, timeframe, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (security_id, date, indicator_name, timeframe) DO UPDATE SET
				value = EXCLUDED.value,
				signal = EXCLUDED.signal
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, t := range recs {
			timeframe := t.Timeframe
			if timeframe == "" {
				timeframe = models.TimeframeDaily
			}
			signal := sql.NullString{String: t.Signal, Valid: t.Signal != ""}
			if _, err := stmt.ExecContext(ctx, t.SecurityID, t.Date, t.IndicatorName, t.Value, signal, timeframe, now); err != nil {
				return fmt.Errorf("failed to upsert indicator %s: %w", t.IndicatorName, err)
			}
		}
		return nil
	})
}

// GetIndicator retrieves a specific indicator for a security on a date
func (db *DB) GetIndicator(ctx context.Context, securityID int, date time.Time, name, timeframe string) (*models.TechnicalIndicator, error) {
	if timeframe == "" {
		timeframe = models.TimeframeDaily
	}
	query := `
		SELECT id, security_id, date, indicator_name, value, signal, timeframe, created_at
		FROM technical_indicators
		WHERE security_id = $1 AND date = $2 AND indicator_name = $3 AND timeframe = $4
	`
	var t models.TechnicalIndicator
	var signal sql.NullString

	err := db.conn.QueryRowContext(ctx, query, securityID, date, name, timeframe).Scan(
		&t.ID, &t.SecurityID, &t.Date, &t.IndicatorName, &t.Value, &signal, &t.Timeframe, &t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("indicator not found: %s on %s", name, date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get indicator: %w", err)
	}

	t.Signal = signal.String
	return &t, nil
}

// IndicatorsByDate retrieves all indicators for a security on a specific date
func (db *DB) IndicatorsByDate(ctx context.Context, securityID int, date time.Time) ([]*models.TechnicalIndicator, error) {
	query := `
		SELECT id, security_id, date, indicator_name, value, signal, timeframe, created_at
		FROM technical_indicators
		WHERE security_id = $1 AND date = $2
		ORDER BY indicator_name
	`
	rows, err := db.conn.QueryContext(ctx, query, securityID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get indicators: %w", err)
	}
	defer rows.Close()

	var recs []*models.TechnicalIndicator
	for rows.Next() {
		var t models.TechnicalIndicator
		var signal sql.NullString
		err := rows.Scan(&t.ID, &t.SecurityID, &t.Date, &t.IndicatorName, &t.Value, &signal, &t.Timeframe, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		t.Signal = signal.String
		recs = append(recs, &t)
	}

	return recs, rows.Err()
}

// IndicatorHistory retrieves historical values for one indicator, newest first
func (db *DB) IndicatorHistory(ctx context.Context, securityID int, name string, limit int) ([]*models.TechnicalIndicator, error) {
	query := `
		SELECT id, security_id, date, indicator_name, value, signal, timeframe, created_at
		FROM technical_indicators
		WHERE security_id = $1 AND indicator_name = $2
		ORDER BY date DESC
		LIMIT $3
	`
	rows, err := db.conn.QueryContext(ctx, query, securityID, name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get indicator history: %w", err)
	}
	defer rows.Close()

	var recs []*models.TechnicalIndicator
	for rows.Next() {
		var t models.TechnicalIndicator
		var signal sql.NullString
		err := rows.Scan(&t.ID, &t.SecurityID, &t.Date, &t.IndicatorName, &t.Value, &signal, &t.Timeframe, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		t.Signal = signal.String
		recs = append(recs, &t)
	}

	return recs, rows.Err()
}
