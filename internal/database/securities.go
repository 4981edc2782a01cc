package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/eshbtc/finport/internal/models"
)

// CreateSecurity inserts a security, updating its details on symbol conflict
func (db *DB) CreateSecurity(ctx context.Context, s *models.Security) error {
	query := `
		INSERT INTO securities (symbol, name, security_type, exchange, sector, industry, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			security_type = EXCLUDED.security_type,
			exchange = EXCLUDED.exchange,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	now := time.Now()
	s.Symbol = strings.ToUpper(s.Symbol)

	err := db.conn.QueryRowContext(ctx, query,
		s.Symbol, s.Name, s.Type, s.Exchange, s.Sector, s.Industry, s.IsActive, now, now,
	).Scan(&s.ID)

	if err != nil {
		return fmt.Errorf("failed to create security: %w", err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// SecurityBySymbol retrieves a security by ticker symbol.
// Returns (nil, nil) when the symbol is unknown.
func (db *DB) SecurityBySymbol(ctx context.Context, symbol string) (*models.Security, error) {
	query := `
		SELECT id, symbol, name, security_type, exchange, sector, industry, is_active, created_at, updated_at
		FROM securities
		WHERE symbol = $1
	`
	var s models.Security
	var exchange, sector, industry sql.NullString

	err := db.conn.QueryRowContext(ctx, query, strings.ToUpper(symbol)).Scan(
		&s.ID, &s.Symbol, &s.Name, &s.Type, &exchange, &sector, &industry,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security: %w", err)
	}

	s.Exchange = exchange.String
	s.Sector = sector.String
	s.Industry = industry.String
	return &s, nil
}

// SecurityByID retrieves a security by ID
func (db *DB) SecurityByID(ctx context.Context, id int) (*models.Security, error) {
	query := `
		SELECT id, symbol, name, security_type, exchange, sector, industry, is_active, created_at, updated_at
		FROM securities
		WHERE id = $1
	`
	var s models.Security
	var exchange, sector, industry sql.NullString

	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Symbol, &s.Name, &s.Type, &exchange, &sector, &industry,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("security not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security: %w", err)
	}

	s.Exchange = exchange.String
	s.Sector = sector.String
	s.Industry = industry.String
	return &s, nil
}
