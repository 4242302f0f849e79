package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// ClientRepository persists clients and their wallets.
type ClientRepository interface {
	Create(ctx context.Context, reg model.ClientRegistration) (*model.Client, error)
	GetByLogin(ctx context.Context, login string) (*model.Client, error)
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	// List returns every client except administrators, by last then first name.
	List(ctx context.Context) ([]model.Client, error)
	// SetDisabled changes the flag of a client who is not an administrator.
	SetDisabled(ctx context.Context, id int64, disabled bool) (*model.Client, error)
	// LockWallet reads the wallet and holds the client row until the transaction ends.
	LockWallet(ctx context.Context, id int64) (decimal.Decimal, error)
	// AddToWallet applies delta and returns the new balance.
	AddToWallet(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)
}
