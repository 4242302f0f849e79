package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
)

type catalogRepository struct {
	db querier
}

const (
	productColumns    = `id, name, description, price, load, available`
	repositoryColumns = `id, name, opened, days, latitude, longitude`
)

func (r *catalogRepository) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (name, description, price, load, available)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Load, p.Available).Scan(&p.ID); err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context, availableOnly bool) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE ($1 = FALSE OR available) ORDER BY name`, availableOnly)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *catalogRepository) ProductsByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	result := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *catalogRepository) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	const query = `UPDATE products SET name=$1, description=$2, price=$3, load=$4, available=$5 WHERE id=$6`
	tag, err := r.db.Exec(ctx, query, p.Name, p.Description, p.Price, p.Load, p.Available, p.ID)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Load, &p.Available); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *catalogRepository) CreateRepository(ctx context.Context, repo model.Repository) (*model.Repository, error) {
	const query = `INSERT INTO repositories (name, opened, days, latitude, longitude)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRow(ctx, query, repo.Name, repo.Opened, repo.Days[:], repo.Latitude, repo.Longitude).Scan(&repo.ID); err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &repo, nil
}

func (r *catalogRepository) ListRepositories(ctx context.Context, openedOnly bool) ([]model.Repository, error) {
	rows, err := r.db.Query(ctx, `SELECT `+repositoryColumns+` FROM repositories WHERE ($1 = FALSE OR opened) ORDER BY name`, openedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Repository
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *repo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *catalogRepository) GetRepository(ctx context.Context, id int64) (*model.Repository, error) {
	repo, err := scanRepository(r.db.QueryRow(ctx, `SELECT `+repositoryColumns+` FROM repositories WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return repo, nil
}

func (r *catalogRepository) UpdateRepository(ctx context.Context, repo model.Repository) (*model.Repository, error) {
	const query = `UPDATE repositories SET name=$1, opened=$2, days=$3, latitude=$4, longitude=$5 WHERE id=$6`
	tag, err := r.db.Exec(ctx, query, repo.Name, repo.Opened, repo.Days[:], repo.Latitude, repo.Longitude, repo.ID)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return &repo, nil
}

func scanRepository(row interface{ Scan(...any) error }) (*model.Repository, error) {
	var (
		repo model.Repository
		days []bool
	)
	if err := row.Scan(&repo.ID, &repo.Name, &repo.Opened, &days, &repo.Latitude, &repo.Longitude); err != nil {
		return nil, err
	}
	repo.Days = model.DaysFromSlice(days)
	return &repo, nil
}
