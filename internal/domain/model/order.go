package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one product quantity within an order.
type OrderLine struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Load        decimal.Decimal
}

// Amount returns the line price.
func (l OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TotalLoad returns the capacity consumed by the line.
func (l OrderLine) TotalLoad() decimal.Decimal {
	return l.Load.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineRequest is a requested quantity for a product.
type LineRequest struct {
	ProductID int64
	Quantity  int
}

// Order belongs to one client and one batch. Total is always derived from Lines.
type Order struct {
	ID        int64
	ClientID  int64
	BatchID   int64
	BatchDate time.Time
	Total     decimal.Decimal
	PaymentID *int64
	CreatedAt time.Time
	Lines     []OrderLine
}

// Settled reports whether a payment has been attached.
func (o Order) Settled() bool {
	return o.PaymentID != nil
}

// LinesTotal sums line amounts.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total
}

// LinesLoad sums line loads.
func LinesLoad(lines []OrderLine) decimal.Decimal {
	load := decimal.Zero
	for _, l := range lines {
		load = load.Add(l.TotalLoad())
	}
	return load
}
