package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// BatchRepository persists production batches.
type BatchRepository interface {
	Create(ctx context.Context, b model.Batch) (*model.Batch, error)
	Update(ctx context.Context, b model.Batch) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Batch, error)
	// Lock reads the batch and holds its row until the transaction ends.
	Lock(ctx context.Context, id int64) (*model.Batch, error)
	// ListOpenedAfter returns opened batches dated after the instant, oldest first.
	ListOpenedAfter(ctx context.Context, after time.Time) ([]model.Batch, error)
	List(ctx context.Context, limit int) ([]model.Batch, error)
	// ListPlannable returns opened batches having orders, newest first.
	ListPlannable(ctx context.Context, limit int) ([]model.Batch, error)
	// Load sums quantity times product load over the batch orders, skipping excludeOrderID.
	Load(ctx context.Context, batchID, excludeOrderID int64) (decimal.Decimal, error)
}
