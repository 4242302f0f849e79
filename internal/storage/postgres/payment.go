package postgres

import (
	"context"

	"github.com/polkiloo/fournil/internal/domain/model"
)

type paymentRepository struct {
	db querier
}

func (r *paymentRepository) Create(ctx context.Context, p model.Payment) (*model.Payment, error) {
	const query = `INSERT INTO payments (client_id, amount, mode, reference)
                   VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, query, p.ClientID, p.Amount, string(p.Mode), p.Reference).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *paymentRepository) ListByClient(ctx context.Context, clientID int64, limit int) ([]model.Payment, error) {
	const query = `SELECT id, client_id, amount, mode, reference, created_at FROM payments
                   WHERE client_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		var (
			p    model.Payment
			mode string
		)
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Amount, &mode, &p.Reference, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Mode = model.PaymentMode(mode)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
