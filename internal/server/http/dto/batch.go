package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchRequest creates or updates a batch. Date is RFC 3339 or YYYY-MM-DD.
type BatchRequest struct {
	Date     string `json:"date"`
	Capacity int64  `json:"capacity"`
	Opened   *bool  `json:"opened"`
}

// BatchResponse describes a batch.
type BatchResponse struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	Cutoff   time.Time `json:"cutoff"`
	Capacity int64     `json:"capacity"`
	Opened   bool      `json:"opened"`
}

// PlanSummaryResponse is the capacity usage of a batch.
type PlanSummaryResponse struct {
	Batch     BatchResponse   `json:"batch"`
	Load      decimal.Decimal `json:"load"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ProductTotalResponse is a product quantity on a batch.
type ProductTotalResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

// RepositoryTotalResponse is a product quantity for one delivery point.
type RepositoryTotalResponse struct {
	RepositoryID   int64  `json:"repository_id"`
	RepositoryName string `json:"repository_name"`
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int64  `json:"quantity"`
}

// ClientTotalResponse is a product quantity for one client.
type ClientTotalResponse struct {
	RepositoryName string `json:"repository_name"`
	ClientID       int64  `json:"client_id"`
	LastName       string `json:"last_name"`
	FirstName      string `json:"first_name"`
	ProductName    string `json:"product_name"`
	Quantity       int64  `json:"quantity"`
}

// PlanResponse gathers every production view of a batch.
type PlanResponse struct {
	Summary      PlanSummaryResponse       `json:"summary"`
	Products     []ProductTotalResponse    `json:"products"`
	Repositories []RepositoryTotalResponse `json:"repositories"`
	Clients      []ClientTotalResponse     `json:"clients"`
}
