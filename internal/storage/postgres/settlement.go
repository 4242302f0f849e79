package postgres

import (
	"context"
	"time"
)

type settlementRepository struct {
	db querier
}

func (r *settlementRepository) LockWatermark(ctx context.Context) (time.Time, error) {
	return r.watermark(ctx, `SELECT last_invoice_date FROM settlement_state WHERE id = 1 FOR UPDATE`)
}

func (r *settlementRepository) Watermark(ctx context.Context) (time.Time, error) {
	return r.watermark(ctx, `SELECT last_invoice_date FROM settlement_state WHERE id = 1`)
}

func (r *settlementRepository) watermark(ctx context.Context, query string) (time.Time, error) {
	var at time.Time
	if err := r.db.QueryRow(ctx, query).Scan(&at); err != nil {
		return time.Time{}, notFound(err)
	}
	return at, nil
}

func (r *settlementRepository) AdvanceWatermark(ctx context.Context, to time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE settlement_state SET last_invoice_date=$1 WHERE id = 1`, to)
	return err
}
