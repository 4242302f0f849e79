package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
)

type batchRepository struct {
	db querier
}

const batchColumns = `id, date, capacity, opened`

func (r *batchRepository) Create(ctx context.Context, b model.Batch) (*model.Batch, error) {
	const query = `INSERT INTO batches (date, capacity, opened) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRow(ctx, query, b.Date, b.Capacity, b.Opened).Scan(&b.ID); err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &b, nil
}

func (r *batchRepository) Update(ctx context.Context, b model.Batch) error {
	const query = `UPDATE batches SET date=$1, capacity=$2, opened=$3 WHERE id=$4`
	tag, err := r.db.Exec(ctx, query, b.Date, b.Capacity, b.Opened, b.ID)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *batchRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM batches WHERE id=$1`, id)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return domainErrors.ErrBatchInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *batchRepository) GetByID(ctx context.Context, id int64) (*model.Batch, error) {
	return scanBatch(r.db.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id=$1`, id))
}

func (r *batchRepository) Lock(ctx context.Context, id int64) (*model.Batch, error) {
	return scanBatch(r.db.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id=$1 FOR UPDATE`, id))
}

func (r *batchRepository) ListOpenedAfter(ctx context.Context, after time.Time) ([]model.Batch, error) {
	rows, err := r.db.Query(ctx, `SELECT `+batchColumns+` FROM batches WHERE opened AND date > $1 ORDER BY date`, after)
	if err != nil {
		return nil, err
	}
	return collectBatches(rows)
}

func (r *batchRepository) List(ctx context.Context, limit int) ([]model.Batch, error) {
	rows, err := r.db.Query(ctx, `SELECT `+batchColumns+` FROM batches ORDER BY date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectBatches(rows)
}

func (r *batchRepository) ListPlannable(ctx context.Context, limit int) ([]model.Batch, error) {
	const query = `SELECT b.id, b.date, b.capacity, b.opened FROM batches b
                   WHERE b.opened AND EXISTS (SELECT 1 FROM orders o WHERE o.batch_id = b.id)
                   ORDER BY b.date DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectBatches(rows)
}

func (r *batchRepository) Load(ctx context.Context, batchID, excludeOrderID int64) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(l.quantity * p.load), 0)
                   FROM order_lines l
                   JOIN orders o ON o.id = l.order_id
                   JOIN products p ON p.id = l.product_id
                   WHERE o.batch_id = $1 AND o.id <> $2`
	var load decimal.Decimal
	if err := r.db.QueryRow(ctx, query, batchID, excludeOrderID).Scan(&load); err != nil {
		return decimal.Zero, err
	}
	return load, nil
}

func scanBatch(row pgx.Row) (*model.Batch, error) {
	var b model.Batch
	if err := row.Scan(&b.ID, &b.Date, &b.Capacity, &b.Opened); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func collectBatches(rows pgx.Rows) ([]model.Batch, error) {
	defer rows.Close()

	var result []model.Batch
	for rows.Next() {
		var b model.Batch
		if err := rows.Scan(&b.ID, &b.Date, &b.Capacity, &b.Opened); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
