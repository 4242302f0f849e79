package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
)

func TestCatalogProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewCatalogUseCase(f.store)

	created, err := uc.CreateProduct(ctx, model.Product{Name: "  Brioche ", Price: dec("6.5"), Load: dec("1.2")})
	require.NoError(t, err)
	require.Equal(t, "Brioche", created.Name)

	_, err = uc.CreateProduct(ctx, model.Product{Name: "Brioche", Price: dec("1")})
	require.ErrorIs(t, err, domainErrors.ErrAlreadyExists)
	_, err = uc.CreateProduct(ctx, model.Product{Name: " "})
	require.ErrorIs(t, err, domainErrors.ErrInvalidName)
	_, err = uc.CreateProduct(ctx, model.Product{Name: "Loss", Price: dec("-1")})
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)
	_, err = uc.CreateProduct(ctx, model.Product{Name: "Ghost", Load: dec("-0.5")})
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)

	all, err := uc.Products(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "Bread", all[0].Name)

	available, err := uc.Products(ctx, true)
	require.NoError(t, err)
	require.Len(t, available, 3, "brioche was created unavailable")
}

func TestCatalogRepositories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewCatalogUseCase(f.store)

	_, err := uc.CreateRepository(ctx, model.Repository{Name: "Docks", Days: everyDay})
	require.NoError(t, err)
	_, err = uc.CreateRepository(ctx, model.Repository{Name: ""})
	require.ErrorIs(t, err, domainErrors.ErrInvalidName)
	_, err = uc.CreateRepository(ctx, model.Repository{Name: "Halles"})
	require.ErrorIs(t, err, domainErrors.ErrAlreadyExists)

	all, err := uc.Repositories(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Docks", all[0].Name)

	opened, err := uc.Repositories(ctx, true)
	require.NoError(t, err)
	require.Len(t, opened, 1)
	require.Equal(t, "Halles", opened[0].Name)
}

func TestCatalogUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewCatalogUseCase(f.store)
	client := f.client("ada")
	batch := f.batch(2, 10)
	_, err := f.orders().Create(ctx, client.ID, batch.ID, []model.LineRequest{qty(f.bread.ID, 4)})
	require.NoError(t, err)

	bread := f.bread
	bread.Name = " Sourdough "
	bread.Load = dec("2")
	bread.Available = false
	updated, err := uc.UpdateProduct(ctx, bread)
	require.NoError(t, err)
	require.Equal(t, "Sourdough", updated.Name)

	load, err := f.store.Batches().Load(ctx, batch.ID, 0)
	require.NoError(t, err)
	require.True(t, load.Equal(dec("8")), "booked lines follow the product load, got %s", load)

	available, err := uc.Products(ctx, true)
	require.NoError(t, err)
	require.Len(t, available, 2)

	bread.Name = "Cake"
	_, err = uc.UpdateProduct(ctx, bread)
	require.ErrorIs(t, err, domainErrors.ErrAlreadyExists)
	_, err = uc.UpdateProduct(ctx, model.Product{ID: 99, Name: "Ghost"})
	require.ErrorIs(t, err, domainErrors.ErrNotFound)
	_, err = uc.UpdateProduct(ctx, model.Product{Name: "Unsaved"})
	require.ErrorIs(t, err, domainErrors.ErrNotFound)
	_, err = uc.UpdateProduct(ctx, model.Product{ID: f.roll.ID, Name: "Roll", Price: dec("-1")})
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)

	docks, err := uc.CreateRepository(ctx, model.Repository{Name: "Docks", Opened: true, Days: everyDay})
	require.NoError(t, err)

	free := f.batch(3, 10)
	eligible, err := f.batches().EligibleBatches(ctx, client.ID, 0)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	require.Equal(t, free.ID, eligible[0].ID)

	halles := f.repo
	halles.Opened = false
	halles.Days = [7]bool{}
	_, err = uc.UpdateRepository(ctx, halles)
	require.NoError(t, err)

	eligible, err = f.batches().EligibleBatches(ctx, client.ID, 0)
	require.NoError(t, err)
	require.Empty(t, eligible, "the client's delivery point no longer delivers")

	opened, err := uc.Repositories(ctx, true)
	require.NoError(t, err)
	require.Len(t, opened, 1)
	require.Equal(t, docks.ID, opened[0].ID)

	halles.Name = "Docks"
	_, err = uc.UpdateRepository(ctx, halles)
	require.ErrorIs(t, err, domainErrors.ErrAlreadyExists)
	halles.Name = "  "
	_, err = uc.UpdateRepository(ctx, halles)
	require.ErrorIs(t, err, domainErrors.ErrInvalidName)
	_, err = uc.UpdateRepository(ctx, model.Repository{ID: 42, Name: "Nowhere"})
	require.ErrorIs(t, err, domainErrors.ErrNotFound)
}
