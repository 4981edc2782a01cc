package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshbtc/finport/internal/models"
)

// UpsertPricePoint inserts or updates a single daily price bar
func (db *DB) UpsertPricePoint(ctx context.Context, p *models.PricePoint) error {
	query := `
		INSERT INTO price_data_daily (security_id, date, open, high, low, close, volume, vwap, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (security_id, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			vwap = EXCLUDED.vwap
		RETURNING id
	`
	err := db.conn.QueryRowContext(ctx, query,
		p.SecurityID, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume, p.VWAP, time.Now(),
	).Scan(&p.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert price point: %w", err)
	}
	return nil
}

// UpsertPricePoints inserts or updates multiple price bars in one transaction
func (db *DB) UpsertPricePoints(ctx context.Context, points []*models.PricePoint) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO price_data_daily (security_id, date, open, high, low, close, volume, vwap, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (security_id, date) DO UPDATE SET
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close,
				volume = EXCLUDED.volume,
				vwap = EXCLUDED.vwap
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, p := range points {
			if _, err := stmt.ExecContext(ctx, p.SecurityID, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume, p.VWAP, now); err != nil {
				return fmt.Errorf("failed to upsert price point for security %d: %w", p.SecurityID, err)
			}
		}
		return nil
	})
}

// PriceSeries retrieves price bars for a security ordered by date ascending.
// Nil bounds are open-ended; an empty result is not an error.
func (db *DB) PriceSeries(ctx context.Context, securityID int, start, end *time.Time) ([]*models.PricePoint, error) {
	query := `
		SELECT id, security_id, date, open, high, low, close, volume, vwap, created_at
		FROM price_data_daily
		WHERE security_id = $1
	`
	args := []interface{}{securityID}
	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get price series: %w", err)
	}
	defer rows.Close()

	var points []*models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		var vwap sql.NullString

		err := rows.Scan(
			&p.ID, &p.SecurityID, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &vwap, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}

		if vwap.Valid {
			p.VWAP, _ = decimal.NewFromString(vwap.String)
		}
		points = append(points, &p)
	}

	return points, rows.Err()
}

// LatestPricePoint retrieves the most recent price bar for a security
func (db *DB) LatestPricePoint(ctx context.Context, securityID int) (*models.PricePoint, error) {
	query := `
		SELECT id, security_id, date, open, high, low, close, volume, vwap, created_at
		FROM price_data_daily
		WHERE security_id = $1
		ORDER BY date DESC
		LIMIT 1
	`
	var p models.PricePoint
	var vwap sql.NullString

	err := db.conn.QueryRowContext(ctx, query, securityID).Scan(
		&p.ID, &p.SecurityID, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &vwap, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no price data for security %d", securityID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price point: %w", err)
	}

	if vwap.Valid {
		p.VWAP, _ = decimal.NewFromString(vwap.String)
	}
	return &p, nil
}
