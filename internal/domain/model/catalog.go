package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Load is the capacity it consumes in a batch.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Load        decimal.Decimal
	Available   bool
}

// Repository is a delivery point with its own weekday schedule.
type Repository struct {
	ID        int64
	Name      string
	Opened    bool
	Days      [7]bool // indexed by time.Weekday, Sunday first
	Latitude  *float64
	Longitude *float64
}

// Delivers reports whether deliveries happen on the weekday of t.
func (r Repository) Delivers(t time.Time) bool {
	return r.Days[t.Weekday()]
}

// DaysFromSlice converts a stored boolean array into the weekday mask.
func DaysFromSlice(days []bool) [7]bool {
	var mask [7]bool
	copy(mask[:], days)
	return mask
}
