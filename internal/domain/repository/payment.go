package repository

import (
	"context"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// PaymentRepository persists wallet movements.
type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (*model.Payment, error)
	ListByClient(ctx context.Context, clientID int64, limit int) ([]model.Payment, error)
}
