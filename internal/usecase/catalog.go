package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

// CatalogUseCase serves products and delivery points.
type CatalogUseCase struct {
	store repository.Store
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(store repository.Store) *CatalogUseCase {
	return &CatalogUseCase{store: store}
}

// Products lists the catalog. Clients pass availableOnly.
func (u *CatalogUseCase) Products(ctx context.Context, availableOnly bool) ([]model.Product, error) {
	return u.store.Catalog().ListProducts(ctx, availableOnly)
}

// Repositories lists delivery points. Clients pass openedOnly.
func (u *CatalogUseCase) Repositories(ctx context.Context, openedOnly bool) ([]model.Repository, error) {
	return u.store.Catalog().ListRepositories(ctx, openedOnly)
}

// CreateProduct adds a product to the catalog.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	p, err := validProduct(p)
	if err != nil {
		return nil, err
	}
	return u.store.Catalog().CreateProduct(ctx, p)
}

// UpdateProduct replaces a product's fields. A new load applies to every
// order already booked with it.
func (u *CatalogUseCase) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if p.ID <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	p, err := validProduct(p)
	if err != nil {
		return nil, err
	}
	return u.store.Catalog().UpdateProduct(ctx, p)
}

func validProduct(p model.Product) (model.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, domainErrors.ErrInvalidName
	}
	if p.Price.IsNegative() || p.Load.IsNegative() {
		return p, domainErrors.ErrInvalidAmount
	}
	return p, nil
}

// CreateRepository adds a delivery point.
func (u *CatalogUseCase) CreateRepository(ctx context.Context, r model.Repository) (*model.Repository, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, domainErrors.ErrInvalidName
	}
	return u.store.Catalog().CreateRepository(ctx, r)
}

// UpdateRepository replaces a delivery point's name, schedule and location.
func (u *CatalogUseCase) UpdateRepository(ctx context.Context, r model.Repository) (*model.Repository, error) {
	if r.ID <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, domainErrors.ErrInvalidName
	}
	return u.store.Catalog().UpdateRepository(ctx, r)
}
