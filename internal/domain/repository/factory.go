package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Clients() ClientRepository
	Catalog() CatalogRepository
	Batches() BatchRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Settlement() SettlementRepository
	Plans() PlanRepository
}

// Transactor runs fn against repositories bound to one transaction.
// A non-nil error from fn rolls the transaction back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(Factory) error) error
}

// Store combines direct repository access and transactions.
type Store interface {
	Factory
	Transactor
}
