package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
)

type clientRepository struct {
	db querier
}

const clientColumns = `id, login, password_hash, first_name, last_name, email, repository_id, wallet, disabled, admin, created_at`

func scanClient(row interface{ Scan(...any) error }) (*model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.Login, &c.PasswordHash, &c.FirstName, &c.LastName, &c.Email,
		&c.RepositoryID, &c.Wallet, &c.Disabled, &c.Admin, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *clientRepository) Create(ctx context.Context, reg model.ClientRegistration) (*model.Client, error) {
	const query = `INSERT INTO clients (login, password_hash, first_name, last_name, email, repository_id)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, wallet, created_at`
	c := model.Client{
		Login:        reg.Login,
		PasswordHash: reg.PasswordHash,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		RepositoryID: reg.RepositoryID,
	}
	err := r.db.QueryRow(ctx, query, reg.Login, reg.PasswordHash, reg.FirstName, reg.LastName, reg.Email, reg.RepositoryID).
		Scan(&c.ID, &c.Wallet, &c.CreatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case uniqueViolation:
			return nil, domainErrors.ErrAlreadyExists
		case foreignKeyViolation:
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) GetByLogin(ctx context.Context, login string) (*model.Client, error) {
	return scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE login=$1`, login))
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	return scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
}

func (r *clientRepository) List(ctx context.Context) ([]model.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE NOT admin ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *clientRepository) SetDisabled(ctx context.Context, id int64, disabled bool) (*model.Client, error) {
	const query = `UPDATE clients SET disabled=$1 WHERE id=$2 AND NOT admin RETURNING ` + clientColumns
	return scanClient(r.db.QueryRow(ctx, query, disabled, id))
}

func (r *clientRepository) LockWallet(ctx context.Context, id int64) (decimal.Decimal, error) {
	var wallet decimal.Decimal
	if err := r.db.QueryRow(ctx, `SELECT wallet FROM clients WHERE id=$1 FOR UPDATE`, id).Scan(&wallet); err != nil {
		return decimal.Zero, notFound(err)
	}
	return wallet, nil
}

func (r *clientRepository) AddToWallet(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var wallet decimal.Decimal
	err := r.db.QueryRow(ctx, `UPDATE clients SET wallet = wallet + $1 WHERE id=$2 RETURNING wallet`, delta, id).Scan(&wallet)
	if err != nil {
		return decimal.Zero, notFound(err)
	}
	return wallet, nil
}
