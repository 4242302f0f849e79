package test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

// errOrderHasLines mirrors the order_lines foreign key.
var errOrderHasLines = errors.New("order still has lines")

// MemStore is an in-memory repository.Store. Transactions run one at a time
// and a failed transaction restores the state it started from.
type MemStore struct {
	// Now stamps new orders, payments and clients. Defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	state *memState

	failMu sync.Mutex
	failOn map[string]error
}

var _ repository.Store = (*MemStore)(nil)

type memState struct {
	seq          map[string]int64
	clients      map[int64]model.Client
	repositories map[int64]model.Repository
	products     map[int64]model.Product
	batches      map[int64]model.Batch
	orders       map[int64]model.Order
	lines        map[int64]map[int64]int
	payments     map[int64]model.Payment
	watermark    time.Time
}

// NewMemStore returns an empty store whose watermark is the Unix epoch.
func NewMemStore() *MemStore {
	return &MemStore{
		state: &memState{
			seq:          make(map[string]int64),
			clients:      make(map[int64]model.Client),
			repositories: make(map[int64]model.Repository),
			products:     make(map[int64]model.Product),
			batches:      make(map[int64]model.Batch),
			orders:       make(map[int64]model.Order),
			lines:        make(map[int64]map[int64]int),
			payments:     make(map[int64]model.Payment),
			watermark:    time.Unix(0, 0).UTC(),
		},
		failOn: make(map[string]error),
	}
}

func (st *memState) clone() *memState {
	c := &memState{
		seq:          make(map[string]int64, len(st.seq)),
		clients:      make(map[int64]model.Client, len(st.clients)),
		repositories: make(map[int64]model.Repository, len(st.repositories)),
		products:     make(map[int64]model.Product, len(st.products)),
		batches:      make(map[int64]model.Batch, len(st.batches)),
		orders:       make(map[int64]model.Order, len(st.orders)),
		lines:        make(map[int64]map[int64]int, len(st.lines)),
		payments:     make(map[int64]model.Payment, len(st.payments)),
		watermark:    st.watermark,
	}
	for k, v := range st.seq {
		c.seq[k] = v
	}
	for k, v := range st.clients {
		c.clients[k] = v
	}
	for k, v := range st.repositories {
		c.repositories[k] = v
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.batches {
		c.batches[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	for k, v := range st.lines {
		inner := make(map[int64]int, len(v))
		for p, q := range v {
			inner[p] = q
		}
		c.lines[k] = inner
	}
	for k, v := range st.payments {
		c.payments[k] = v
	}
	return c
}

func (st *memState) next(table string) int64 {
	st.seq[table]++
	return st.seq[table]
}

// FailOn makes the named repository operation, such as "Payments.Create",
// return err until cleared with a nil error.
func (s *MemStore) FailOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

func (s *MemStore) failure(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.failOn[op]
}

func (s *MemStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// WithinTransaction runs fn while holding the store. A non-nil error from fn
// discards every change fn made.
func (s *MemStore) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(memFactory{memRepo{store: s, inTx: true}}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *MemStore) factory() memFactory {
	return memFactory{memRepo{store: s}}
}

func (s *MemStore) Clients() repository.ClientRepository       { return s.factory().Clients() }
func (s *MemStore) Catalog() repository.CatalogRepository      { return s.factory().Catalog() }
func (s *MemStore) Batches() repository.BatchRepository        { return s.factory().Batches() }
func (s *MemStore) Orders() repository.OrderRepository         { return s.factory().Orders() }
func (s *MemStore) Payments() repository.PaymentRepository     { return s.factory().Payments() }
func (s *MemStore) Settlement() repository.SettlementRepository { return s.factory().Settlement() }
func (s *MemStore) Plans() repository.PlanRepository           { return s.factory().Plans() }

type memRepo struct {
	store *MemStore
	inTx  bool
}

func (r memRepo) run(op string, fn func(st *memState) error) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	if err := r.store.failure(op); err != nil {
		return err
	}
	return fn(r.store.state)
}

type memFactory struct {
	memRepo
}

func (f memFactory) Clients() repository.ClientRepository       { return memClients{f.memRepo} }
func (f memFactory) Catalog() repository.CatalogRepository      { return memCatalog{f.memRepo} }
func (f memFactory) Batches() repository.BatchRepository        { return memBatches{f.memRepo} }
func (f memFactory) Orders() repository.OrderRepository         { return memOrders{f.memRepo} }
func (f memFactory) Payments() repository.PaymentRepository     { return memPayments{f.memRepo} }
func (f memFactory) Settlement() repository.SettlementRepository { return memSettlement{f.memRepo} }
func (f memFactory) Plans() repository.PlanRepository           { return memPlans{f.memRepo} }

// orderView returns the order with its batch date and, when withLines is set, its lines.
func (st *memState) orderView(o model.Order, withLines bool) model.Order {
	o.BatchDate = st.batches[o.BatchID].Date
	o.Lines = nil
	if withLines {
		o.Lines = st.orderLines(o.ID)
	}
	return o
}

func (st *memState) orderLines(orderID int64) []model.OrderLine {
	var lines []model.OrderLine
	for productID, qty := range st.lines[orderID] {
		p := st.products[productID]
		lines = append(lines, model.OrderLine{
			ProductID:   productID,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			Load:        p.Load,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductName < lines[j].ProductName })
	return lines
}

func (st *memState) batchLoad(batchID, excludeOrderID int64) decimal.Decimal {
	load := decimal.Zero
	for id, o := range st.orders {
		if o.BatchID != batchID || id == excludeOrderID {
			continue
		}
		for productID, qty := range st.lines[id] {
			load = load.Add(st.products[productID].Load.Mul(decimal.NewFromInt(int64(qty))))
		}
	}
	return load
}

type memClients struct{ memRepo }

func (r memClients) Create(_ context.Context, reg model.ClientRegistration) (*model.Client, error) {
	var created model.Client
	err := r.run("Clients.Create", func(st *memState) error {
		for _, c := range st.clients {
			if c.Login == reg.Login {
				return domainErrors.ErrAlreadyExists
			}
		}
		if _, ok := st.repositories[reg.RepositoryID]; !ok {
			return domainErrors.ErrNotFound
		}
		created = model.Client{
			ID:           st.next("clients"),
			Login:        reg.Login,
			PasswordHash: reg.PasswordHash,
			FirstName:    reg.FirstName,
			LastName:     reg.LastName,
			Email:        reg.Email,
			RepositoryID: reg.RepositoryID,
			Wallet:       decimal.Zero,
			CreatedAt:    r.store.now(),
		}
		st.clients[created.ID] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r memClients) GetByLogin(_ context.Context, login string) (*model.Client, error) {
	var found *model.Client
	err := r.run("Clients.GetByLogin", func(st *memState) error {
		for _, c := range st.clients {
			if c.Login == login {
				c := c
				found = &c
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return found, err
}

func (r memClients) GetByID(_ context.Context, id int64) (*model.Client, error) {
	var found model.Client
	err := r.run("Clients.GetByID", func(st *memState) error {
		c, ok := st.clients[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		found = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r memClients) List(_ context.Context) ([]model.Client, error) {
	var out []model.Client
	err := r.run("Clients.List", func(st *memState) error {
		for _, c := range st.clients {
			if !c.Admin {
				out = append(out, c)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].LastName != out[j].LastName {
				return out[i].LastName < out[j].LastName
			}
			if out[i].FirstName != out[j].FirstName {
				return out[i].FirstName < out[j].FirstName
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (r memClients) SetDisabled(_ context.Context, id int64, disabled bool) (*model.Client, error) {
	var updated model.Client
	err := r.run("Clients.SetDisabled", func(st *memState) error {
		c, ok := st.clients[id]
		if !ok || c.Admin {
			return domainErrors.ErrNotFound
		}
		c.Disabled = disabled
		st.clients[id] = c
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r memClients) LockWallet(_ context.Context, id int64) (decimal.Decimal, error) {
	wallet := decimal.Zero
	err := r.run("Clients.LockWallet", func(st *memState) error {
		c, ok := st.clients[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		wallet = c.Wallet
		return nil
	})
	return wallet, err
}

func (r memClients) AddToWallet(_ context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	wallet := decimal.Zero
	err := r.run("Clients.AddToWallet", func(st *memState) error {
		c, ok := st.clients[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		c.Wallet = c.Wallet.Add(delta)
		st.clients[id] = c
		wallet = c.Wallet
		return nil
	})
	return wallet, err
}

type memCatalog struct{ memRepo }

func (r memCatalog) CreateProduct(_ context.Context, p model.Product) (*model.Product, error) {
	err := r.run("Catalog.CreateProduct", func(st *memState) error {
		for _, existing := range st.products {
			if existing.Name == p.Name {
				return domainErrors.ErrAlreadyExists
			}
		}
		p.ID = st.next("products")
		st.products[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r memCatalog) ListProducts(_ context.Context, availableOnly bool) ([]model.Product, error) {
	var out []model.Product
	err := r.run("Catalog.ListProducts", func(st *memState) error {
		for _, p := range st.products {
			if availableOnly && !p.Available {
				continue
			}
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r memCatalog) ProductsByIDs(_ context.Context, ids []int64) (map[int64]model.Product, error) {
	out := make(map[int64]model.Product, len(ids))
	err := r.run("Catalog.ProductsByIDs", func(st *memState) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = p
			}
		}
		return nil
	})
	return out, err
}

func (r memCatalog) UpdateProduct(_ context.Context, p model.Product) (*model.Product, error) {
	err := r.run("Catalog.UpdateProduct", func(st *memState) error {
		if _, ok := st.products[p.ID]; !ok {
			return domainErrors.ErrNotFound
		}
		for id, existing := range st.products {
			if id != p.ID && existing.Name == p.Name {
				return domainErrors.ErrAlreadyExists
			}
		}
		st.products[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r memCatalog) CreateRepository(_ context.Context, repo model.Repository) (*model.Repository, error) {
	err := r.run("Catalog.CreateRepository", func(st *memState) error {
		for _, existing := range st.repositories {
			if existing.Name == repo.Name {
				return domainErrors.ErrAlreadyExists
			}
		}
		repo.ID = st.next("repositories")
		st.repositories[repo.ID] = repo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

func (r memCatalog) ListRepositories(_ context.Context, openedOnly bool) ([]model.Repository, error) {
	var out []model.Repository
	err := r.run("Catalog.ListRepositories", func(st *memState) error {
		for _, repo := range st.repositories {
			if openedOnly && !repo.Opened {
				continue
			}
			out = append(out, repo)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r memCatalog) GetRepository(_ context.Context, id int64) (*model.Repository, error) {
	var found model.Repository
	err := r.run("Catalog.GetRepository", func(st *memState) error {
		repo, ok := st.repositories[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		found = repo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r memCatalog) UpdateRepository(_ context.Context, repo model.Repository) (*model.Repository, error) {
	err := r.run("Catalog.UpdateRepository", func(st *memState) error {
		if _, ok := st.repositories[repo.ID]; !ok {
			return domainErrors.ErrNotFound
		}
		for id, existing := range st.repositories {
			if id != repo.ID && existing.Name == repo.Name {
				return domainErrors.ErrAlreadyExists
			}
		}
		st.repositories[repo.ID] = repo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

type memBatches struct{ memRepo }

func (r memBatches) Create(_ context.Context, b model.Batch) (*model.Batch, error) {
	err := r.run("Batches.Create", func(st *memState) error {
		for _, existing := range st.batches {
			if existing.Date.Equal(b.Date) {
				return domainErrors.ErrAlreadyExists
			}
		}
		b.ID = st.next("batches")
		st.batches[b.ID] = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r memBatches) Update(_ context.Context, b model.Batch) error {
	return r.run("Batches.Update", func(st *memState) error {
		if _, ok := st.batches[b.ID]; !ok {
			return domainErrors.ErrNotFound
		}
		for id, existing := range st.batches {
			if id != b.ID && existing.Date.Equal(b.Date) {
				return domainErrors.ErrAlreadyExists
			}
		}
		st.batches[b.ID] = b
		return nil
	})
}

func (r memBatches) Delete(_ context.Context, id int64) error {
	return r.run("Batches.Delete", func(st *memState) error {
		if _, ok := st.batches[id]; !ok {
			return domainErrors.ErrNotFound
		}
		for _, o := range st.orders {
			if o.BatchID == id {
				return domainErrors.ErrBatchInUse
			}
		}
		delete(st.batches, id)
		return nil
	})
}

func (r memBatches) get(op string, id int64) (*model.Batch, error) {
	var found model.Batch
	err := r.run(op, func(st *memState) error {
		b, ok := st.batches[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		found = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r memBatches) GetByID(_ context.Context, id int64) (*model.Batch, error) {
	return r.get("Batches.GetByID", id)
}

func (r memBatches) Lock(_ context.Context, id int64) (*model.Batch, error) {
	return r.get("Batches.Lock", id)
}

func (r memBatches) ListOpenedAfter(_ context.Context, after time.Time) ([]model.Batch, error) {
	var out []model.Batch
	err := r.run("Batches.ListOpenedAfter", func(st *memState) error {
		for _, b := range st.batches {
			if b.Opened && b.Date.After(after) {
				out = append(out, b)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
		return nil
	})
	return out, err
}

func (r memBatches) List(_ context.Context, limit int) ([]model.Batch, error) {
	return r.newest("Batches.List", limit, func(*memState, model.Batch) bool { return true })
}

func (r memBatches) ListPlannable(_ context.Context, limit int) ([]model.Batch, error) {
	return r.newest("Batches.ListPlannable", limit, func(st *memState, b model.Batch) bool {
		if !b.Opened {
			return false
		}
		for _, o := range st.orders {
			if o.BatchID == b.ID {
				return true
			}
		}
		return false
	})
}

func (r memBatches) newest(op string, limit int, keep func(*memState, model.Batch) bool) ([]model.Batch, error) {
	var out []model.Batch
	err := r.run(op, func(st *memState) error {
		for _, b := range st.batches {
			if keep(st, b) {
				out = append(out, b)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r memBatches) Load(_ context.Context, batchID, excludeOrderID int64) (decimal.Decimal, error) {
	load := decimal.Zero
	err := r.run("Batches.Load", func(st *memState) error {
		load = st.batchLoad(batchID, excludeOrderID)
		return nil
	})
	return load, err
}

type memOrders struct{ memRepo }

func (r memOrders) Create(_ context.Context, o model.Order) (*model.Order, error) {
	err := r.run("Orders.Create", func(st *memState) error {
		if _, ok := st.batches[o.BatchID]; !ok {
			return domainErrors.ErrNotFound
		}
		for _, existing := range st.orders {
			if existing.ClientID == o.ClientID && existing.BatchID == o.BatchID {
				return domainErrors.ErrDuplicateOrder
			}
		}
		o.ID = st.next("orders")
		o.CreatedAt = r.store.now()
		o.Lines = nil
		st.orders[o.ID] = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r memOrders) InsertLines(_ context.Context, orderID int64, lines []model.OrderLine) error {
	return r.run("Orders.InsertLines", func(st *memState) error {
		if _, ok := st.orders[orderID]; !ok {
			return domainErrors.ErrNotFound
		}
		if st.lines[orderID] == nil {
			st.lines[orderID] = make(map[int64]int)
		}
		for _, line := range lines {
			if _, ok := st.products[line.ProductID]; !ok {
				return domainErrors.ErrProductUnavailable
			}
			if line.Quantity <= 0 {
				return domainErrors.ErrInvalidQuantity
			}
			if _, dup := st.lines[orderID][line.ProductID]; dup {
				return domainErrors.ErrAlreadyExists
			}
			st.lines[orderID][line.ProductID] = line.Quantity
		}
		return nil
	})
}

func (r memOrders) DeleteLines(_ context.Context, orderID int64) error {
	return r.run("Orders.DeleteLines", func(st *memState) error {
		delete(st.lines, orderID)
		return nil
	})
}

func (r memOrders) Update(_ context.Context, o model.Order) error {
	return r.run("Orders.Update", func(st *memState) error {
		existing, ok := st.orders[o.ID]
		if !ok {
			return domainErrors.ErrNotFound
		}
		for id, other := range st.orders {
			if id != o.ID && other.ClientID == existing.ClientID && other.BatchID == o.BatchID {
				return domainErrors.ErrDuplicateOrder
			}
		}
		existing.BatchID = o.BatchID
		existing.Total = o.Total
		st.orders[o.ID] = existing
		return nil
	})
}

func (r memOrders) Delete(_ context.Context, orderID, clientID int64) (bool, error) {
	deleted := false
	err := r.run("Orders.Delete", func(st *memState) error {
		o, ok := st.orders[orderID]
		if !ok || o.ClientID != clientID || o.Settled() {
			return nil
		}
		if len(st.lines[orderID]) > 0 {
			return errOrderHasLines
		}
		delete(st.orders, orderID)
		delete(st.lines, orderID)
		deleted = true
		return nil
	})
	return deleted, err
}

func (r memOrders) get(op string, id int64, withLines bool) (*model.Order, error) {
	var found model.Order
	err := r.run(op, func(st *memState) error {
		o, ok := st.orders[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		found = st.orderView(o, withLines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r memOrders) GetByID(_ context.Context, id int64) (*model.Order, error) {
	return r.get("Orders.GetByID", id, true)
}

func (r memOrders) Lock(_ context.Context, id int64) (*model.Order, error) {
	return r.get("Orders.Lock", id, false)
}

func (r memOrders) ExistsForBatch(_ context.Context, clientID, batchID int64) (bool, error) {
	exists := false
	err := r.run("Orders.ExistsForBatch", func(st *memState) error {
		for _, o := range st.orders {
			if o.ClientID == clientID && o.BatchID == batchID {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (r memOrders) BatchIDsByClient(_ context.Context, clientID int64) ([]int64, error) {
	var ids []int64
	err := r.run("Orders.BatchIDsByClient", func(st *memState) error {
		for _, o := range st.orders {
			if o.ClientID == clientID {
				ids = append(ids, o.BatchID)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return nil
	})
	return ids, err
}

func (r memOrders) ListByClient(_ context.Context, clientID int64) ([]model.Order, error) {
	var out []model.Order
	err := r.run("Orders.ListByClient", func(st *memState) error {
		for _, o := range st.orders {
			if o.ClientID == clientID {
				out = append(out, st.orderView(o, true))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].BatchDate.After(out[j].BatchDate) })
		return nil
	})
	return out, err
}

func (r memOrders) ClientsWithUnpaid(_ context.Context, asOf time.Time) ([]int64, error) {
	var ids []int64
	err := r.run("Orders.ClientsWithUnpaid", func(st *memState) error {
		seen := make(map[int64]bool)
		for _, o := range st.orders {
			if o.Settled() || o.CreatedAt.After(asOf) || seen[o.ClientID] {
				continue
			}
			seen[o.ClientID] = true
			ids = append(ids, o.ClientID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return nil
	})
	return ids, err
}

func (r memOrders) LockUnpaid(_ context.Context, clientID int64, asOf time.Time) ([]model.Order, error) {
	var out []model.Order
	err := r.run("Orders.LockUnpaid", func(st *memState) error {
		for _, o := range st.orders {
			if o.ClientID == clientID && !o.Settled() && !o.CreatedAt.After(asOf) {
				out = append(out, st.orderView(o, true))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID < out[j].ID
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}

func (r memOrders) AttachPayment(_ context.Context, orderID, paymentID int64) error {
	return r.run("Orders.AttachPayment", func(st *memState) error {
		o, ok := st.orders[orderID]
		if !ok || o.Settled() {
			return domainErrors.ErrOrderSettled
		}
		if _, ok := st.payments[paymentID]; !ok {
			return domainErrors.ErrNotFound
		}
		id := paymentID
		o.PaymentID = &id
		st.orders[orderID] = o
		return nil
	})
}

func (r memOrders) Lines(_ context.Context, orderIDs []int64) (map[int64][]model.OrderLine, error) {
	out := make(map[int64][]model.OrderLine, len(orderIDs))
	err := r.run("Orders.Lines", func(st *memState) error {
		for _, id := range orderIDs {
			if lines := st.orderLines(id); len(lines) > 0 {
				out[id] = lines
			}
		}
		return nil
	})
	return out, err
}

type memPayments struct{ memRepo }

func (r memPayments) Create(_ context.Context, p model.Payment) (*model.Payment, error) {
	err := r.run("Payments.Create", func(st *memState) error {
		if _, ok := st.clients[p.ClientID]; !ok {
			return domainErrors.ErrNotFound
		}
		p.ID = st.next("payments")
		p.CreatedAt = r.store.now()
		st.payments[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r memPayments) ListByClient(_ context.Context, clientID int64, limit int) ([]model.Payment, error) {
	var out []model.Payment
	err := r.run("Payments.ListByClient", func(st *memState) error {
		out = st.clientPayments(clientID)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (st *memState) clientPayments(clientID int64) []model.Payment {
	var out []model.Payment
	for _, p := range st.payments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type memSettlement struct{ memRepo }

func (r memSettlement) LockWatermark(_ context.Context) (time.Time, error) {
	var at time.Time
	err := r.run("Settlement.LockWatermark", func(st *memState) error {
		at = st.watermark
		return nil
	})
	return at, err
}

func (r memSettlement) Watermark(_ context.Context) (time.Time, error) {
	var at time.Time
	err := r.run("Settlement.Watermark", func(st *memState) error {
		at = st.watermark
		return nil
	})
	return at, err
}

func (r memSettlement) AdvanceWatermark(_ context.Context, to time.Time) error {
	return r.run("Settlement.AdvanceWatermark", func(st *memState) error {
		st.watermark = to
		return nil
	})
}

type memPlans struct{ memRepo }

// plannedLines yields order, product and quantity of every available product ordered on the batch.
func (st *memState) plannedLines(batchID int64, fn func(o model.Order, p model.Product, qty int)) {
	for id, o := range st.orders {
		if o.BatchID != batchID {
			continue
		}
		for productID, qty := range st.lines[id] {
			p := st.products[productID]
			if p.Available {
				fn(o, p, qty)
			}
		}
	}
}

func (r memPlans) ProductTotals(_ context.Context, batchID int64) ([]model.ProductTotal, error) {
	var out []model.ProductTotal
	err := r.run("Plans.ProductTotals", func(st *memState) error {
		totals := make(map[int64]*model.ProductTotal)
		st.plannedLines(batchID, func(_ model.Order, p model.Product, qty int) {
			t, ok := totals[p.ID]
			if !ok {
				t = &model.ProductTotal{ProductID: p.ID, ProductName: p.Name}
				totals[p.ID] = t
			}
			t.Quantity += int64(qty)
		})
		for _, t := range totals {
			out = append(out, *t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
		return nil
	})
	return out, err
}

func (r memPlans) RepositoryTotals(_ context.Context, batchID int64) ([]model.RepositoryProductTotal, error) {
	var out []model.RepositoryProductTotal
	err := r.run("Plans.RepositoryTotals", func(st *memState) error {
		type key struct{ repo, product int64 }
		totals := make(map[key]*model.RepositoryProductTotal)
		st.plannedLines(batchID, func(o model.Order, p model.Product, qty int) {
			repo := st.repositories[st.clients[o.ClientID].RepositoryID]
			k := key{repo.ID, p.ID}
			t, ok := totals[k]
			if !ok {
				t = &model.RepositoryProductTotal{RepositoryID: repo.ID, RepositoryName: repo.Name, ProductID: p.ID, ProductName: p.Name}
				totals[k] = t
			}
			t.Quantity += int64(qty)
		})
		for _, t := range totals {
			out = append(out, *t)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].RepositoryName != out[j].RepositoryName {
				return out[i].RepositoryName < out[j].RepositoryName
			}
			return out[i].ProductName < out[j].ProductName
		})
		return nil
	})
	return out, err
}

func (r memPlans) ClientTotals(_ context.Context, batchID int64) ([]model.ClientProductTotal, error) {
	var out []model.ClientProductTotal
	err := r.run("Plans.ClientTotals", func(st *memState) error {
		type key struct{ client, product int64 }
		totals := make(map[key]*model.ClientProductTotal)
		st.plannedLines(batchID, func(o model.Order, p model.Product, qty int) {
			client := st.clients[o.ClientID]
			k := key{client.ID, p.ID}
			t, ok := totals[k]
			if !ok {
				t = &model.ClientProductTotal{
					RepositoryName: st.repositories[client.RepositoryID].Name,
					ClientID:       client.ID,
					LastName:       client.LastName,
					FirstName:      client.FirstName,
					ProductName:    p.Name,
				}
				totals[k] = t
			}
			t.Quantity += int64(qty)
		})
		for _, t := range totals {
			out = append(out, *t)
		}
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i], out[j]
			switch {
			case a.RepositoryName != b.RepositoryName:
				return a.RepositoryName < b.RepositoryName
			case a.LastName != b.LastName:
				return a.LastName < b.LastName
			case a.FirstName != b.FirstName:
				return a.FirstName < b.FirstName
			case a.ClientID != b.ClientID:
				return a.ClientID < b.ClientID
			default:
				return a.ProductName < b.ProductName
			}
		})
		return nil
	})
	return out, err
}

// AddClient stores c as is, assigning an ID when it has none. It lets tests
// seed admins, disabled clients and funded wallets.
func (s *MemStore) AddClient(c model.Client) model.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.state.next("clients")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.state.clients[c.ID] = c
	return c
}

// SetWatermark overrides the last invoice date.
func (s *MemStore) SetWatermark(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.watermark = at
}

// PaymentCount returns how many payments the client has.
func (s *MemStore) PaymentCount(clientID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.clientPayments(clientID))
}
