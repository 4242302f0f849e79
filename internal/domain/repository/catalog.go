package repository

import (
	"context"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// CatalogRepository gives keyed access to products and delivery points.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	ListProducts(ctx context.Context, availableOnly bool) ([]model.Product, error)
	ProductsByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	CreateRepository(ctx context.Context, r model.Repository) (*model.Repository, error)
	ListRepositories(ctx context.Context, openedOnly bool) ([]model.Repository, error)
	GetRepository(ctx context.Context, id int64) (*model.Repository, error)
	UpdateRepository(ctx context.Context, r model.Repository) (*model.Repository, error)
}
