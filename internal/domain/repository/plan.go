package repository

import (
	"context"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// PlanRepository aggregates ordered quantities for production.
type PlanRepository interface {
	ProductTotals(ctx context.Context, batchID int64) ([]model.ProductTotal, error)
	RepositoryTotals(ctx context.Context, batchID int64) ([]model.RepositoryProductTotal, error)
	ClientTotals(ctx context.Context, batchID int64) ([]model.ClientProductTotal, error)
}
