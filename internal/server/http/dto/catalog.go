package dto

import "github.com/shopspring/decimal"

// ProductRequest creates a catalog product.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Load        decimal.Decimal `json:"load"`
	Available   *bool           `json:"available"`
}

// ProductResponse is a catalog product.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Load        decimal.Decimal `json:"load"`
	Available   bool            `json:"available"`
}

// RepositoryRequest creates a delivery point. Days are weekday names or
// numbers with Sunday as 0.
type RepositoryRequest struct {
	Name      string   `json:"name"`
	Opened    *bool    `json:"opened"`
	Days      []string `json:"days"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// RepositoryResponse is a delivery point.
type RepositoryResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Opened    bool     `json:"opened"`
	Days      []string `json:"days"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
