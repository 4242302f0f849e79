package app

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/usecase"
)

// HealthChecker verifies that the storage answers.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Facade exposes the use cases to the HTTP layer. Raw dates coming from
// requests are parsed in the cooperative's location.
type Facade struct {
	auth       *usecase.AuthUseCase
	clients    *usecase.ClientUseCase
	catalog    *usecase.CatalogUseCase
	batches    *usecase.BatchUseCase
	orders     *usecase.OrderUseCase
	settlement *usecase.SettlementUseCase
	plans      *usecase.PlanUseCase
	health     HealthChecker
	loc        *time.Location
}

type facadeParams struct {
	fx.In

	Auth       *usecase.AuthUseCase
	Clients    *usecase.ClientUseCase
	Catalog    *usecase.CatalogUseCase
	Batches    *usecase.BatchUseCase
	Orders     *usecase.OrderUseCase
	Settlement *usecase.SettlementUseCase
	Plans      *usecase.PlanUseCase
	Health     HealthChecker
	Location   *time.Location
}

func NewFacade(p facadeParams) *Facade {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	return &Facade{
		auth:       p.Auth,
		clients:    p.Clients,
		catalog:    p.Catalog,
		batches:    p.Batches,
		orders:     p.Orders,
		settlement: p.Settlement,
		plans:      p.Plans,
		health:     p.Health,
		loc:        loc,
	}
}

func (f *Facade) Register(ctx context.Context, reg model.SignUp) (*model.Client, string, error) {
	return f.auth.Register(ctx, reg)
}

func (f *Facade) Authenticate(ctx context.Context, login, password string) (*model.Client, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *Facade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *Facade) IsAdmin(ctx context.Context, clientID int64) (bool, error) {
	return f.auth.IsAdmin(ctx, clientID)
}

func (f *Facade) Products(ctx context.Context, availableOnly bool) ([]model.Product, error) {
	return f.catalog.Products(ctx, availableOnly)
}

func (f *Facade) Repositories(ctx context.Context, openedOnly bool) ([]model.Repository, error) {
	return f.catalog.Repositories(ctx, openedOnly)
}

func (f *Facade) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	return f.catalog.CreateProduct(ctx, p)
}

func (f *Facade) CreateRepository(ctx context.Context, r model.Repository) (*model.Repository, error) {
	return f.catalog.CreateRepository(ctx, r)
}

func (f *Facade) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	return f.catalog.UpdateProduct(ctx, p)
}

func (f *Facade) UpdateRepository(ctx context.Context, r model.Repository) (*model.Repository, error) {
	return f.catalog.UpdateRepository(ctx, r)
}

func (f *Facade) Clients(ctx context.Context) ([]model.Client, error) {
	return f.clients.List(ctx)
}

func (f *Facade) SetClientDisabled(ctx context.Context, id int64, disabled bool) (*model.Client, error) {
	return f.clients.SetDisabled(ctx, id, disabled)
}

func (f *Facade) SendMailing(ctx context.Context, m model.Mailing) (*model.MailingReport, error) {
	return f.clients.SendMailing(ctx, m)
}

func (f *Facade) EligibleBatches(ctx context.Context, clientID, editingOrderID int64) ([]model.Batch, error) {
	return f.batches.EligibleBatches(ctx, clientID, editingOrderID)
}

func (f *Facade) Batches(ctx context.Context) ([]model.Batch, error) {
	return f.batches.List(ctx)
}

func (f *Facade) CreateBatch(ctx context.Context, rawDate string, capacity int64, opened bool) (*model.Batch, error) {
	date, _, err := usecase.ParseDate(rawDate, f.loc)
	if err != nil {
		return nil, err
	}
	return f.batches.Create(ctx, model.Batch{Date: date, Capacity: capacity, Opened: opened})
}

func (f *Facade) UpdateBatch(ctx context.Context, id int64, rawDate string, capacity int64, opened bool) (*model.Batch, error) {
	date, _, err := usecase.ParseDate(rawDate, f.loc)
	if err != nil {
		return nil, err
	}
	return f.batches.Update(ctx, model.Batch{ID: id, Date: date, Capacity: capacity, Opened: opened})
}

func (f *Facade) DeleteBatch(ctx context.Context, id int64) error {
	return f.batches.Delete(ctx, id)
}

func (f *Facade) CreateOrder(ctx context.Context, clientID, batchID int64, lines []model.LineRequest) (*model.Order, error) {
	return f.orders.Create(ctx, clientID, batchID, lines)
}

func (f *Facade) EditOrder(ctx context.Context, clientID, orderID, batchID int64, lines []model.LineRequest) (*model.Order, error) {
	return f.orders.Edit(ctx, clientID, orderID, batchID, lines)
}

func (f *Facade) CancelOrder(ctx context.Context, clientID, orderID int64) error {
	return f.orders.Cancel(ctx, clientID, orderID)
}

func (f *Facade) Orders(ctx context.Context, clientID int64) ([]model.Order, error) {
	return f.orders.List(ctx, clientID)
}

func (f *Facade) Order(ctx context.Context, clientID, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, clientID, orderID)
}

func (f *Facade) Wallet(ctx context.Context, clientID int64) (*model.WalletSummary, error) {
	return f.settlement.Wallet(ctx, clientID)
}

// RunInvoiceSweep settles up to rawAsOf. A plain date covers the whole day.
func (f *Facade) RunInvoiceSweep(ctx context.Context, rawAsOf string) (*model.SweepReport, error) {
	asOf, err := usecase.ParseInvoiceDate(rawAsOf, f.loc)
	if err != nil {
		return nil, err
	}
	return f.settlement.RunInvoiceSweep(ctx, asOf)
}

func (f *Facade) Watermark(ctx context.Context) (time.Time, error) {
	return f.settlement.Watermark(ctx)
}

func (f *Facade) ApplyManualPayment(ctx context.Context, clientID int64, amount decimal.Decimal, mode model.PaymentMode, reference string) (*model.ManualPaymentResult, error) {
	return f.settlement.ApplyManualPayment(ctx, clientID, amount, mode, reference)
}

func (f *Facade) PlannableBatches(ctx context.Context) ([]model.Batch, error) {
	return f.plans.PlannableBatches(ctx)
}

func (f *Facade) Plan(ctx context.Context, batchID int64) (*model.BatchPlan, error) {
	return f.plans.Plan(ctx, batchID)
}

func (f *Facade) ExportPlanCSV(ctx context.Context, batchID int64, w io.Writer) error {
	return f.plans.ExportCSV(ctx, batchID, w)
}

func (f *Facade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
