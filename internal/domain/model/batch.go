package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// OrderCutoff is how long before a batch starts that its orders freeze.
	OrderCutoff = 12 * time.Hour
	// BatchStartHour is used when an admin supplies a date without time.
	BatchStartHour = 6
)

// Batch is a dated production run with a finite load capacity.
type Batch struct {
	ID       int64
	Date     time.Time
	Capacity int64
	Opened   bool
}

// Cutoff returns the instant after which orders on the batch are frozen.
func (b Batch) Cutoff() time.Time {
	return b.Date.Add(-OrderCutoff)
}

// Orderable reports whether new orders may target the batch at now.
func (b Batch) Orderable(now time.Time) bool {
	return b.Opened && b.Date.After(now.Add(OrderCutoff))
}

// CutoffPassed reports whether edits and cancellations are frozen at now.
func (b Batch) CutoffPassed(now time.Time) bool {
	return !now.Before(b.Cutoff())
}

// Remaining returns capacity left once load is consumed.
func (b Batch) Remaining(load decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(b.Capacity).Sub(load)
}

// Fits reports whether load stays within the batch capacity.
func (b Batch) Fits(load decimal.Decimal) bool {
	return load.LessThanOrEqual(decimal.NewFromInt(b.Capacity))
}

// NormalizeBatchDate moves a date-only value to the batch start hour in loc.
func NormalizeBatchDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return time.Date(t.Year(), t.Month(), t.Day(), BatchStartHour, 0, 0, 0, loc)
	}
	return t
}
