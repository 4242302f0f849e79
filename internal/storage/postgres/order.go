package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
)

type orderRepository struct {
	db querier
}

const orderSelect = `SELECT o.id, o.client_id, o.batch_id, b.date, o.total, o.payment_id, o.created_at
                     FROM orders o JOIN batches b ON b.id = o.batch_id`

func (r *orderRepository) Create(ctx context.Context, o model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (client_id, batch_id, total) VALUES ($1, $2, $3) RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, query, o.ClientID, o.BatchID, o.Total).Scan(&o.ID, &o.CreatedAt); err != nil {
		switch pgErrorCode(err) {
		case uniqueViolation:
			return nil, domainErrors.ErrDuplicateOrder
		case foreignKeyViolation:
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) InsertLines(ctx context.Context, orderID int64, lines []model.OrderLine) error {
	const query = `INSERT INTO order_lines (order_id, product_id, quantity) VALUES ($1, $2, $3)`
	for _, line := range lines {
		if _, err := r.db.Exec(ctx, query, orderID, line.ProductID, line.Quantity); err != nil {
			if pgErrorCode(err) == foreignKeyViolation {
				return domainErrors.ErrProductUnavailable
			}
			return err
		}
	}
	return nil
}

func (r *orderRepository) DeleteLines(ctx context.Context, orderID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_lines WHERE order_id=$1`, orderID)
	return err
}

func (r *orderRepository) Update(ctx context.Context, o model.Order) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET batch_id=$1, total=$2 WHERE id=$3`, o.BatchID, o.Total, o.ID)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return domainErrors.ErrDuplicateOrder
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID, clientID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1 AND client_id=$2 AND payment_id IS NULL`, orderID, clientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id=$1`, id))
	if err != nil {
		return nil, err
	}
	lines, err := r.Lines(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[order.ID]
	return order, nil
}

func (r *orderRepository) Lock(ctx context.Context, id int64) (*model.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id=$1 FOR UPDATE OF o`, id))
}

func (r *orderRepository) ExistsForBatch(ctx context.Context, clientID, batchID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE client_id=$1 AND batch_id=$2)`, clientID, batchID).Scan(&exists)
	return exists, err
}

func (r *orderRepository) BatchIDsByClient(ctx context.Context, clientID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT batch_id FROM orders WHERE client_id=$1 ORDER BY batch_id`, clientID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *orderRepository) ListByClient(ctx context.Context, clientID int64) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, orderSelect+` WHERE o.client_id=$1 ORDER BY b.date DESC`, clientID)
	if err != nil {
		return nil, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, orders)
}

func (r *orderRepository) ClientsWithUnpaid(ctx context.Context, asOf time.Time) ([]int64, error) {
	const query = `SELECT DISTINCT client_id FROM orders
                   WHERE payment_id IS NULL AND created_at <= $1 ORDER BY client_id`
	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *orderRepository) LockUnpaid(ctx context.Context, clientID int64, asOf time.Time) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, orderSelect+`
                     WHERE o.client_id=$1 AND o.payment_id IS NULL AND o.created_at <= $2
                     ORDER BY o.created_at, o.id FOR UPDATE OF o`, clientID, asOf)
	if err != nil {
		return nil, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, orders)
}

func (r *orderRepository) AttachPayment(ctx context.Context, orderID, paymentID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET payment_id=$1 WHERE id=$2 AND payment_id IS NULL`, paymentID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderSettled
	}
	return nil
}

func (r *orderRepository) Lines(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderLine, error) {
	result := make(map[int64][]model.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	const query = `SELECT l.order_id, l.product_id, p.name, l.quantity, p.price, p.load
                   FROM order_lines l JOIN products p ON p.id = l.product_id
                   WHERE l.order_id = ANY($1) ORDER BY l.order_id, p.name`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			line    model.OrderLine
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice, &line.Load); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) withLines(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	lines, err := r.Lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	if err := row.Scan(&o.ID, &o.ClientID, &o.BatchID, &o.BatchDate, &o.Total, &o.PaymentID, &o.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.BatchID, &o.BatchDate, &o.Total, &o.PaymentID, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
