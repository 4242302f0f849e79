package repository

import (
	"context"
	"time"
)

// SettlementRepository holds the last invoice date watermark.
type SettlementRepository interface {
	// LockWatermark reads the watermark and holds it until the transaction ends.
	LockWatermark(ctx context.Context) (time.Time, error)
	Watermark(ctx context.Context) (time.Time, error)
	AdvanceWatermark(ctx context.Context, to time.Time) error
}
