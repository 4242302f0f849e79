package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SweepOutcome summarises an invoice sweep.
type SweepOutcome string

const (
	SweepNothingToSettle SweepOutcome = "nothing_to_settle"
	SweepSettled         SweepOutcome = "settled"
)

// ClientStatement lists what a sweep settled for one client and what stays due.
type ClientStatement struct {
	Client      Client
	AsOf        time.Time
	Paid        []Order
	Outstanding []Order
	Wallet      decimal.Decimal
}

// PaidTotal sums the settled orders.
func (s ClientStatement) PaidTotal() decimal.Decimal {
	return sumTotals(s.Paid)
}

// OutstandingTotal sums the orders left unpaid.
func (s ClientStatement) OutstandingTotal() decimal.Decimal {
	return sumTotals(s.Outstanding)
}

func sumTotals(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	return total
}

// SweepReport is returned by an invoice sweep once its transaction committed.
type SweepReport struct {
	AsOf       time.Time
	Outcome    SweepOutcome
	Clients    int
	Payments   int
	Statements []ClientStatement
	Notified   int
}
