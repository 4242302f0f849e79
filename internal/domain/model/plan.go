package model

import "github.com/shopspring/decimal"

// ProductTotal is the quantity of a product ordered on a batch.
type ProductTotal struct {
	ProductID   int64
	ProductName string
	Quantity    int64
}

// RepositoryProductTotal is a product quantity for one delivery point.
type RepositoryProductTotal struct {
	RepositoryID   int64
	RepositoryName string
	ProductID      int64
	ProductName    string
	Quantity       int64
}

// ClientProductTotal is a product quantity for one client of a delivery point.
type ClientProductTotal struct {
	RepositoryName string
	ClientID       int64
	LastName       string
	FirstName      string
	ProductName    string
	Quantity       int64
}

// BatchPlanSummary is the capacity usage of a batch.
type BatchPlanSummary struct {
	Batch     Batch
	Load      decimal.Decimal
	Remaining decimal.Decimal
}

// BatchPlan gathers every production view of a batch.
type BatchPlan struct {
	Summary      BatchPlanSummary
	Products     []ProductTotal
	Repositories []RepositoryProductTotal
	Clients      []ClientProductTotal
}
