package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

const batchListLimit = 100

// Clock returns the current instant.
type Clock func() time.Time

// BatchUseCase manages production batches and their eligibility.
type BatchUseCase struct {
	store repository.Store
	now   Clock
	loc   *time.Location
}

// NewBatchUseCase constructs BatchUseCase.
func NewBatchUseCase(store repository.Store, clock Clock, loc *time.Location) *BatchUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &BatchUseCase{store: store, now: clock, loc: loc}
}

// EligibleBatches lists the batches the client may order on. Full batches are
// skipped. When editingOrderID is set the batch of that order stays eligible
// and its own load does not count.
func (u *BatchUseCase) EligibleBatches(ctx context.Context, clientID, editingOrderID int64) ([]model.Batch, error) {
	now := u.now()
	client, err := activeClient(ctx, u.store, clientID)
	if err != nil {
		return nil, err
	}
	repo, err := u.store.Catalog().GetRepository(ctx, client.RepositoryID)
	if err != nil {
		return nil, err
	}

	taken := make(map[int64]bool)
	ids, err := u.store.Orders().BatchIDsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		taken[id] = true
	}
	if editingOrderID != 0 {
		order, err := u.store.Orders().GetByID(ctx, editingOrderID)
		if err != nil {
			return nil, err
		}
		if order.ClientID != clientID {
			return nil, domainErrors.ErrAccessDenied
		}
		delete(taken, order.BatchID)
	}

	batches, err := u.store.Batches().ListOpenedAfter(ctx, now.Add(model.OrderCutoff))
	if err != nil {
		return nil, err
	}
	eligible := make([]model.Batch, 0, len(batches))
	for _, b := range batches {
		if taken[b.ID] || !b.Orderable(now) || !repo.Delivers(b.Date.In(u.loc)) {
			continue
		}
		load, err := u.store.Batches().Load(ctx, b.ID, editingOrderID)
		if err != nil {
			return nil, err
		}
		if !b.Remaining(load).IsPositive() {
			continue
		}
		eligible = append(eligible, b)
	}
	return eligible, nil
}

// CapacityRemaining returns the load still available on the batch, ignoring
// excludingOrderID when it is set.
func (u *BatchUseCase) CapacityRemaining(ctx context.Context, batchID, excludingOrderID int64) (decimal.Decimal, error) {
	batch, err := u.store.Batches().GetByID(ctx, batchID)
	if err != nil {
		return decimal.Zero, err
	}
	load, err := u.store.Batches().Load(ctx, batchID, excludingOrderID)
	if err != nil {
		return decimal.Zero, err
	}
	return batch.Remaining(load), nil
}

// Create schedules a batch. A date without time starts at the default hour.
func (u *BatchUseCase) Create(ctx context.Context, b model.Batch) (*model.Batch, error) {
	if err := u.prepare(&b); err != nil {
		return nil, err
	}
	return u.store.Batches().Create(ctx, b)
}

// Update changes date, capacity or opened state of a batch. The capacity may
// not drop below the load already booked.
func (u *BatchUseCase) Update(ctx context.Context, b model.Batch) (*model.Batch, error) {
	if err := u.prepare(&b); err != nil {
		return nil, err
	}
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		if _, err := f.Batches().Lock(ctx, b.ID); err != nil {
			return err
		}
		load, err := f.Batches().Load(ctx, b.ID, 0)
		if err != nil {
			return err
		}
		if !b.Fits(load) {
			return domainErrors.ErrCapacityExceeded
		}
		return f.Batches().Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a batch without orders.
func (u *BatchUseCase) Delete(ctx context.Context, id int64) error {
	return u.store.Batches().Delete(ctx, id)
}

// List returns the most recent batches.
func (u *BatchUseCase) List(ctx context.Context) ([]model.Batch, error) {
	return u.store.Batches().List(ctx, batchListLimit)
}

func (u *BatchUseCase) prepare(b *model.Batch) error {
	if b.Date.IsZero() {
		return domainErrors.ErrInvalidDate
	}
	if b.Capacity <= 0 {
		return domainErrors.ErrInvalidCapacity
	}
	b.Date = model.NormalizeBatchDate(b.Date, u.loc)
	return nil
}

// activeClient loads a client allowed to order.
func activeClient(ctx context.Context, f repository.Factory, clientID int64) (*model.Client, error) {
	client, err := f.Clients().GetByID(ctx, clientID)
	if err != nil {
		if domainErrors.KindOf(err) == domainErrors.KindNotFound {
			return nil, domainErrors.ErrAccessDenied
		}
		return nil, err
	}
	if !client.CanOrder() {
		return nil, domainErrors.ErrAccessDenied
	}
	return client, nil
}

// checkDeliveryDay verifies the client's delivery point works on the batch weekday.
func checkDeliveryDay(ctx context.Context, f repository.Factory, client *model.Client, b *model.Batch, loc *time.Location) error {
	repo, err := f.Catalog().GetRepository(ctx, client.RepositoryID)
	if err != nil {
		return err
	}
	if !repo.Delivers(b.Date.In(loc)) {
		return domainErrors.ErrDeliveryDayNotEligible
	}
	return nil
}
