package models

import "time"

// Security type constants
const (
	SecurityTypeStock = "stock"
	SecurityTypeETF   = "etf"
	SecurityTypeIndex = "index"
)

// Security represents a tradeable security (stock, ETF, etc.)
type Security struct {
	ID        int       `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Type      string    `json:"security_type"`
	Exchange  string    `json:"exchange,omitempty"`
	Sector    string    `json:"sector,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
