package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/fournil/internal/domain/model"
	testhelpers "github.com/polkiloo/fournil/internal/test"
)

// monday is the reference instant of every use case test.
var monday = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

var everyDay = [7]bool{true, true, true, true, true, true, true}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	t     *testing.T
	store *testhelpers.MemStore
	clock *testClock
	repo  model.Repository
	bread model.Product
	cake  model.Product
	roll  model.Product

	// nextDay is the last day offset used by placeOrders.
	nextDay int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{now: monday}
	store := testhelpers.NewMemStore()
	store.Now = clock.Now

	f := &fixture{t: t, store: store, clock: clock}
	f.repo = f.repository("Halles", everyDay)
	f.bread = f.product("Bread", "4.00", "1")
	f.cake = f.product("Cake", "10.00", "2.5")
	f.roll = f.product("Roll", "1.00", "0.1")
	f.nextDay = 1
	return f
}

func (f *fixture) repository(name string, days [7]bool) model.Repository {
	f.t.Helper()
	repo, err := f.store.Catalog().CreateRepository(context.Background(), model.Repository{Name: name, Opened: true, Days: days})
	require.NoError(f.t, err)
	return *repo
}

func (f *fixture) product(name, price, load string) model.Product {
	f.t.Helper()
	p, err := f.store.Catalog().CreateProduct(context.Background(), model.Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Load:      decimal.RequireFromString(load),
		Available: true,
	})
	require.NoError(f.t, err)
	return *p
}

func (f *fixture) client(login string) model.Client {
	return f.store.AddClient(model.Client{
		Login:        login,
		FirstName:    login,
		LastName:     "Member",
		Email:        login + "@example.org",
		RepositoryID: f.repo.ID,
		Wallet:       decimal.Zero,
	})
}

func (f *fixture) fundedClient(login, wallet string) model.Client {
	c := f.client(login)
	c.Wallet = decimal.RequireFromString(wallet)
	return f.store.AddClient(c)
}

// batch schedules an opened batch daysAhead days after monday at 06:00.
func (f *fixture) batch(daysAhead int, capacity int64) model.Batch {
	f.t.Helper()
	date := time.Date(2026, 3, 9+daysAhead, 6, 0, 0, 0, time.UTC)
	b, err := f.store.Batches().Create(context.Background(), model.Batch{Date: date, Capacity: capacity, Opened: true})
	require.NoError(f.t, err)
	return *b
}

func (f *fixture) orders() *OrderUseCase {
	return NewOrderUseCase(f.store, f.clock.Now, time.UTC)
}

func (f *fixture) batches() *BatchUseCase {
	return NewBatchUseCase(f.store, f.clock.Now, time.UTC)
}

func (f *fixture) settlement(queue MessageQueue) *SettlementUseCase {
	var sender StatementSender
	if queue != nil {
		sender = NewNotifier(queue, time.UTC)
	}
	return NewSettlementUseCase(f.store, sender, discardLogger())
}

func (f *fixture) wallet(clientID int64) decimal.Decimal {
	f.t.Helper()
	c, err := f.store.Clients().GetByID(context.Background(), clientID)
	require.NoError(f.t, err)
	return c.Wallet
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func qty(productID int64, n int) model.LineRequest {
	return model.LineRequest{ProductID: productID, Quantity: n}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
