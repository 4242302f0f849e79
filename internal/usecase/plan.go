package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

const plannableBatchLimit = 10

// PlanUseCase aggregates ordered quantities for the bakers.
type PlanUseCase struct {
	store repository.Store
}

// NewPlanUseCase constructs PlanUseCase.
func NewPlanUseCase(store repository.Store) *PlanUseCase {
	return &PlanUseCase{store: store}
}

// PlannableBatches returns the latest opened batches holding orders.
func (u *PlanUseCase) PlannableBatches(ctx context.Context) ([]model.Batch, error) {
	return u.store.Batches().ListPlannable(ctx, plannableBatchLimit)
}

// ProductsForBatch totals each product ordered on the batch.
func (u *PlanUseCase) ProductsForBatch(ctx context.Context, batchID int64) ([]model.ProductTotal, error) {
	return u.store.Plans().ProductTotals(ctx, batchID)
}

// ProductsByRepository totals products per delivery point.
func (u *PlanUseCase) ProductsByRepository(ctx context.Context, batchID int64) ([]model.RepositoryProductTotal, error) {
	return u.store.Plans().RepositoryTotals(ctx, batchID)
}

// ProductsByRepositoryByClient totals products per client, grouped by delivery point.
func (u *PlanUseCase) ProductsByRepositoryByClient(ctx context.Context, batchID int64) ([]model.ClientProductTotal, error) {
	return u.store.Plans().ClientTotals(ctx, batchID)
}

// BatchLoad returns the capacity consumed on the batch.
func (u *PlanUseCase) BatchLoad(ctx context.Context, batchID int64) (decimal.Decimal, error) {
	return u.store.Batches().Load(ctx, batchID, 0)
}

// Summary returns capacity usage of the batch.
func (u *PlanUseCase) Summary(ctx context.Context, batchID int64) (*model.BatchPlanSummary, error) {
	batch, err := u.store.Batches().GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	load, err := u.BatchLoad(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &model.BatchPlanSummary{Batch: *batch, Load: load, Remaining: batch.Remaining(load)}, nil
}

// Plan gathers the summary and the three aggregations of a batch.
func (u *PlanUseCase) Plan(ctx context.Context, batchID int64) (*model.BatchPlan, error) {
	summary, err := u.Summary(ctx, batchID)
	if err != nil {
		return nil, err
	}
	products, err := u.ProductsForBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	repositories, err := u.ProductsByRepository(ctx, batchID)
	if err != nil {
		return nil, err
	}
	clients, err := u.ProductsByRepositoryByClient(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &model.BatchPlan{Summary: *summary, Products: products, Repositories: repositories, Clients: clients}, nil
}

// ExportCSV writes one headerless record per delivery point, client and product:
// repository,last_name,first_name,product,quantity.
func (u *PlanUseCase) ExportCSV(ctx context.Context, batchID int64, w io.Writer) error {
	if _, err := u.store.Batches().GetByID(ctx, batchID); err != nil {
		return err
	}
	totals, err := u.ProductsByRepositoryByClient(ctx, batchID)
	if err != nil {
		return err
	}

	out := csv.NewWriter(w)
	for _, t := range totals {
		record := []string{t.RepositoryName, t.LastName, t.FirstName, t.ProductName, strconv.FormatInt(t.Quantity, 10)}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
