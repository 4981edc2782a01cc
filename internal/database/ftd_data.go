package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// UpsertFTDPoint inserts or updates a single failure-to-deliver record
func (db *DB) UpsertFTDPoint(ctx context.Context, f *models.FTDPoint) error {
	query := `
		INSERT INTO ftd_data_daily (security_id, date, quantity, price, value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (security_id, date) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			price = EXCLUDED.price,
			value = EXCLUDED.value
		RETURNING id
	`
	err := db.conn.QueryRowContext(ctx, query,
		f.SecurityID, f.Date, f.Quantity, f.Price, f.Value, time.Now(),
	).Scan(&f.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert ftd point: %w", err)
	}
	return nil
}

// UpsertFTDPoints inserts or updates multiple FTD records in one transaction
func (db *DB) UpsertFTDPoints(ctx context.Context, points []*models.FTDPoint) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO ftd_data_daily (security_id, date, quantity, price, value, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (security_id, date) DO UPDATE SET
				quantity = EXCLUDED.quantity,
				price = EXCLUDED.price,
				value = EXCLUDED.value
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, f := range points {
			if _, err := stmt.ExecContext(ctx, f.SecurityID, f.Date, f.Quantity, f.Price, f.Value, now); err != nil {
				return fmt.Errorf("failed to upsert ftd point for security %d: %w", f.SecurityID, err)
			}
		}
		return nil
	})
}

// FTDSeries retrieves FTD records for a security ordered by date ascending.
// Nil bounds are open-ended; an empty result is not an error.
func (db *DB) FTDSeries(ctx context.Context, securityID int, start, end *time.Time) ([]*models.FTDPoint, error) {
	query := `
		SELECT id, security_id, date, quantity, price, value, created_at
		FROM ftd_data_daily
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
		return nil, fmt.Errorf("failed to get ftd series: %w", err)
	}
	defer rows.Close()

	var points []*models.FTDPoint
	for rows.Next() {
		var f models.FTDPoint
		err := rows.Scan(&f.ID, &f.SecurityID, &f.Date, &f.Quantity, &f.Price, &f.Value, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ftd point: %w", err)
		}
		points = append(points, &f)
	}

	return points, rows.Err()
}
