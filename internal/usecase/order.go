package usecase

import (
	"context"
	"math"
	"time"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

// OrderUseCase places, edits and cancels orders against batch capacity.
type OrderUseCase struct {
	store repository.Store
	now   Clock
	loc   *time.Location
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store repository.Store, clock Clock, loc *time.Location) *OrderUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &OrderUseCase{store: store, now: clock, loc: loc}
}

// Create places a new order on the batch. Capacity is checked while the batch row is held.
func (u *OrderUseCase) Create(ctx context.Context, clientID, batchID int64, lines []model.LineRequest) (*model.Order, error) {
	now := u.now()
	var created *model.Order

	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		client, err := activeClient(ctx, f, clientID)
		if err != nil {
			return err
		}

		batch, err := f.Batches().Lock(ctx, batchID)
		if err != nil {
			return err
		}
		if !batch.Orderable(now) {
			return domainErrors.ErrBatchNotOrderable
		}
		if err := checkDeliveryDay(ctx, f, client, batch, u.loc); err != nil {
			return err
		}

		exists, err := f.Orders().ExistsForBatch(ctx, clientID, batch.ID)
		if err != nil {
			return err
		}
		if exists {
			return domainErrors.ErrDuplicateOrder
		}

		orderLines, err := resolveLines(ctx, f, lines)
		if err != nil {
			return err
		}
		if err := ensureCapacity(ctx, f, batch, 0, orderLines); err != nil {
			return err
		}

		order, err := f.Orders().Create(ctx, model.Order{
			ClientID: clientID,
			BatchID:  batch.ID,
			Total:    model.LinesTotal(orderLines),
		})
		if err != nil {
			return err
		}
		if err := f.Orders().InsertLines(ctx, order.ID, orderLines); err != nil {
			return err
		}

		order.BatchDate = batch.Date
		order.Lines = orderLines
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// maxLineQuantity bounds the merged quantity of one product; lines are stored as INTEGER.
const maxLineQuantity = math.MaxInt32

// Edit replaces the lines of an unsettled order and optionally moves it to
// another batch. Passing zero or the current batch keeps the order in place.
func (u *OrderUseCase) Edit(ctx context.Context, clientID, orderID, batchID int64, lines []model.LineRequest) (*model.Order, error) {
	now := u.now()
	var edited *model.Order

	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		order, err := lockOwned(ctx, f, clientID, orderID)
		if err != nil {
			return err
		}
		client, err := activeClient(ctx, f, clientID)
		if err != nil {
			return err
		}

		if batchID == 0 {
			batchID = order.BatchID
		}
		current, target, err := lockBatches(ctx, f, order.BatchID, batchID)
		if err != nil {
			return err
		}
		if current.CutoffPassed(now) {
			return domainErrors.ErrCutoffPassed
		}
		if order.Settled() {
			return domainErrors.ErrOrderSettled
		}

		if target.ID != current.ID {
			if !target.Orderable(now) {
				return domainErrors.ErrBatchNotOrderable
			}
			if err := checkDeliveryDay(ctx, f, client, target, u.loc); err != nil {
				return err
			}
			exists, err := f.Orders().ExistsForBatch(ctx, clientID, target.ID)
			if err != nil {
				return err
			}
			if exists {
				return domainErrors.ErrDuplicateOrder
			}
		}

		orderLines, err := resolveLines(ctx, f, lines)
		if err != nil {
			return err
		}
		if err := ensureCapacity(ctx, f, target, order.ID, orderLines); err != nil {
			return err
		}

		if err := f.Orders().DeleteLines(ctx, order.ID); err != nil {
			return err
		}
		order.BatchID = target.ID
		order.BatchDate = target.Date
		order.Total = model.LinesTotal(orderLines)
		if err := f.Orders().Update(ctx, *order); err != nil {
			return err
		}
		if err := f.Orders().InsertLines(ctx, order.ID, orderLines); err != nil {
			return err
		}

		order.Lines = orderLines
		edited = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// Cancel deletes an unsettled order before its batch cutoff. Disabled clients are denied.
func (u *OrderUseCase) Cancel(ctx context.Context, clientID, orderID int64) error {
	now := u.now()

	return u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		order, err := lockOwned(ctx, f, clientID, orderID)
		if err != nil {
			return err
		}
		if _, err := activeClient(ctx, f, clientID); err != nil {
			return err
		}
		batch, err := f.Batches().GetByID(ctx, order.BatchID)
		if err != nil {
			return err
		}
		if batch.CutoffPassed(now) {
			return domainErrors.ErrCutoffPassed
		}
		if order.Settled() {
			return domainErrors.ErrOrderSettled
		}

		if err := f.Orders().DeleteLines(ctx, order.ID); err != nil {
			return err
		}
		deleted, err := f.Orders().Delete(ctx, order.ID, clientID)
		if err != nil {
			return err
		}
		if !deleted {
			return domainErrors.ErrOrderSettled
		}
		return nil
	})
}

// List returns the client's orders with their lines, latest batch first.
func (u *OrderUseCase) List(ctx context.Context, clientID int64) ([]model.Order, error) {
	return u.store.Orders().ListByClient(ctx, clientID)
}

// Get returns one order of the client.
func (u *OrderUseCase) Get(ctx context.Context, clientID, orderID int64) (*model.Order, error) {
	order, err := u.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != clientID {
		return nil, domainErrors.ErrAccessDenied
	}
	return order, nil
}

// lockOwned locks the order row. Settlement is checked by callers after the
// cutoff so a frozen order always reports the cutoff first.
func lockOwned(ctx context.Context, f repository.Factory, clientID, orderID int64) (*model.Order, error) {
	order, err := f.Orders().Lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != clientID {
		return nil, domainErrors.ErrAccessDenied
	}
	return order, nil
}

// lockBatches locks both batches in ascending id order so concurrent moves
// between the same pair cannot deadlock.
func lockBatches(ctx context.Context, f repository.Factory, currentID, targetID int64) (*model.Batch, *model.Batch, error) {
	if currentID == targetID {
		b, err := f.Batches().Lock(ctx, currentID)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	}

	first, second := currentID, targetID
	if second < first {
		first, second = second, first
	}
	locked := make(map[int64]*model.Batch, 2)
	for _, id := range []int64{first, second} {
		b, err := f.Batches().Lock(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = b
	}
	return locked[currentID], locked[targetID], nil
}

// resolveLines validates requested quantities against the catalog. Zero
// quantities are dropped and repeated products are merged.
func resolveLines(ctx context.Context, f repository.Factory, reqs []model.LineRequest) ([]model.OrderLine, error) {
	quantities := make(map[int64]int, len(reqs))
	order := make([]int64, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity < 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		sum, seen := quantities[req.ProductID]
		if !seen {
			order = append(order, req.ProductID)
		}
		if req.Quantity > maxLineQuantity-sum {
			return nil, domainErrors.ErrInvalidQuantity
		}
		quantities[req.ProductID] = sum + req.Quantity
	}

	products, err := f.Catalog().ProductsByIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	lines := make([]model.OrderLine, 0, len(order))
	for _, id := range order {
		p, ok := products[id]
		if !ok || !p.Available {
			return nil, domainErrors.ErrProductUnavailable
		}
		qty := quantities[id]
		if qty == 0 {
			continue
		}
		lines = append(lines, model.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			Load:        p.Load,
		})
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrNothingOrdered
	}
	return lines, nil
}

func ensureCapacity(ctx context.Context, f repository.Factory, batch *model.Batch, excludeOrderID int64, lines []model.OrderLine) error {
	load, err := f.Batches().Load(ctx, batch.ID, excludeOrderID)
	if err != nil {
		return err
	}
	if !batch.Fits(load.Add(model.LinesLoad(lines))) {
		return domainErrors.ErrCapacityExceeded
	}
	return nil
}
