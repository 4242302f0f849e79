package postgres

import (
	"context"

	"github.com/polkiloo/fournil/internal/domain/model"
)

type planRepository struct {
	db querier
}

const planFrom = `FROM order_lines l
                  JOIN orders o ON o.id = l.order_id
                  JOIN products p ON p.id = l.product_id`

func (r *planRepository) ProductTotals(ctx context.Context, batchID int64) ([]model.ProductTotal, error) {
	query := `SELECT p.id, p.name, SUM(l.quantity) ` + planFrom + `
              WHERE o.batch_id = $1 AND p.available
              GROUP BY p.id, p.name ORDER BY p.name`
	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ProductTotal
	for rows.Next() {
		var t model.ProductTotal
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.Quantity); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *planRepository) RepositoryTotals(ctx context.Context, batchID int64) ([]model.RepositoryProductTotal, error) {
	query := `SELECT rp.id, rp.name, p.id, p.name, SUM(l.quantity) ` + planFrom + `
              JOIN clients c ON c.id = o.client_id
              JOIN repositories rp ON rp.id = c.repository_id
              WHERE o.batch_id = $1 AND p.available
              GROUP BY rp.id, rp.name, p.id, p.name ORDER BY rp.name, p.name`
	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.RepositoryProductTotal
	for rows.Next() {
		var t model.RepositoryProductTotal
		if err := rows.Scan(&t.RepositoryID, &t.RepositoryName, &t.ProductID, &t.ProductName, &t.Quantity); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *planRepository) ClientTotals(ctx context.Context, batchID int64) ([]model.ClientProductTotal, error) {
	query := `SELECT rp.name, c.id, c.last_name, c.first_name, p.name, SUM(l.quantity) ` + planFrom + `
              JOIN clients c ON c.id = o.client_id
              JOIN repositories rp ON rp.id = c.repository_id
              WHERE o.batch_id = $1 AND p.available
              GROUP BY rp.name, c.id, c.last_name, c.first_name, p.name
              ORDER BY rp.name, c.last_name, c.first_name, c.id, p.name`
	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ClientProductTotal
	for rows.Next() {
		var t model.ClientProductTotal
		if err := rows.Scan(&t.RepositoryName, &t.ClientID, &t.LastName, &t.FirstName, &t.ProductName, &t.Quantity); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
