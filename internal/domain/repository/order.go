package repository

import (
	"context"
	"time"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// OrderRepository persists orders and their lines.
type OrderRepository interface {
	Create(ctx context.Context, o model.Order) (*model.Order, error)
	InsertLines(ctx context.Context, orderID int64, lines []model.OrderLine) error
	DeleteLines(ctx context.Context, orderID int64) error
	Update(ctx context.Context, o model.Order) error
	// Delete removes an unpaid order of the client and reports whether a row went away.
	Delete(ctx context.Context, orderID, clientID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// Lock reads the order without lines and holds its row until the transaction ends.
	Lock(ctx context.Context, id int64) (*model.Order, error)
	ExistsForBatch(ctx context.Context, clientID, batchID int64) (bool, error)
	BatchIDsByClient(ctx context.Context, clientID int64) ([]int64, error)
	ListByClient(ctx context.Context, clientID int64) ([]model.Order, error)
	ClientsWithUnpaid(ctx context.Context, asOf time.Time) ([]int64, error)
	// LockUnpaid returns unpaid orders created up to asOf, oldest first, locked.
	LockUnpaid(ctx context.Context, clientID int64, asOf time.Time) ([]model.Order, error)
	AttachPayment(ctx context.Context, orderID, paymentID int64) error
	Lines(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderLine, error)
}
