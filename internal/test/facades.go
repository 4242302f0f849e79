package test

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// AdminCheckerStub answers admin lookups with fixed values.
type AdminCheckerStub struct {
	Admin bool
	Err   error
}

// IsAdmin returns the configured answer.
func (s AdminCheckerStub) IsAdmin(context.Context, int64) (bool, error) {
	return s.Admin, s.Err
}

// AuthFacadeStub simulates registration, login and token handling.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, model.SignUp) (*model.Client, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.Client, string, error)
	ParseFn        func(string) (int64, error)
	IsAdminFn      func(context.Context, int64) (bool, error)
}

// Register delegates to RegisterFn or returns a client with id 1.
func (s AuthFacadeStub) Register(ctx context.Context, reg model.SignUp) (*model.Client, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, reg)
	}
	return &model.Client{ID: 1, Login: reg.Login, RepositoryID: reg.RepositoryID}, "token", nil
}

// Authenticate delegates to AuthenticateFn or succeeds.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.Client, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.Client{ID: 1, Login: login}, "token", nil
}

// ParseToken delegates to ParseFn or returns client 1.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// IsAdmin delegates to IsAdminFn. Everybody is an admin otherwise.
func (s AuthFacadeStub) IsAdmin(ctx context.Context, clientID int64) (bool, error) {
	if s.IsAdminFn != nil {
		return s.IsAdminFn(ctx, clientID)
	}
	return true, nil
}

// CatalogFacadeStub simulates catalog operations.
type CatalogFacadeStub struct {
	ProductsFn         func(context.Context, bool) ([]model.Product, error)
	RepositoriesFn     func(context.Context, bool) ([]model.Repository, error)
	CreateProductFn    func(context.Context, model.Product) (*model.Product, error)
	CreateRepositoryFn func(context.Context, model.Repository) (*model.Repository, error)
	UpdateProductFn    func(context.Context, model.Product) (*model.Product, error)
	UpdateRepositoryFn func(context.Context, model.Repository) (*model.Repository, error)
}

func (s CatalogFacadeStub) Products(ctx context.Context, availableOnly bool) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, availableOnly)
	}
	return nil, nil
}

func (s CatalogFacadeStub) Repositories(ctx context.Context, openedOnly bool) ([]model.Repository, error) {
	if s.RepositoriesFn != nil {
		return s.RepositoriesFn(ctx, openedOnly)
	}
	return nil, nil
}

func (s CatalogFacadeStub) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, p)
	}
	p.ID = 1
	return &p, nil
}

func (s CatalogFacadeStub) CreateRepository(ctx context.Context, r model.Repository) (*model.Repository, error) {
	if s.CreateRepositoryFn != nil {
		return s.CreateRepositoryFn(ctx, r)
	}
	r.ID = 1
	return &r, nil
}

func (s CatalogFacadeStub) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if s.UpdateProductFn != nil {
		return s.UpdateProductFn(ctx, p)
	}
	return &p, nil
}

func (s CatalogFacadeStub) UpdateRepository(ctx context.Context, r model.Repository) (*model.Repository, error) {
	if s.UpdateRepositoryFn != nil {
		return s.UpdateRepositoryFn(ctx, r)
	}
	return &r, nil
}

// ClientFacadeStub simulates client administration and mailings.
type ClientFacadeStub struct {
	ClientsFn     func(context.Context) ([]model.Client, error)
	SetDisabledFn func(context.Context, int64, bool) (*model.Client, error)
	MailingFn     func(context.Context, model.Mailing) (*model.MailingReport, error)
}

func (s ClientFacadeStub) Clients(ctx context.Context) ([]model.Client, error) {
	if s.ClientsFn != nil {
		return s.ClientsFn(ctx)
	}
	return nil, nil
}

func (s ClientFacadeStub) SetClientDisabled(ctx context.Context, id int64, disabled bool) (*model.Client, error) {
	if s.SetDisabledFn != nil {
		return s.SetDisabledFn(ctx, id, disabled)
	}
	return &model.Client{ID: id, Disabled: disabled}, nil
}

func (s ClientFacadeStub) SendMailing(ctx context.Context, m model.Mailing) (*model.MailingReport, error) {
	if s.MailingFn != nil {
		return s.MailingFn(ctx, m)
	}
	return &model.MailingReport{}, nil
}

// BatchFacadeStub simulates batch listing and administration.
type BatchFacadeStub struct {
	EligibleFn func(context.Context, int64, int64) ([]model.Batch, error)
	BatchesFn  func(context.Context) ([]model.Batch, error)
	CreateFn   func(context.Context, string, int64, bool) (*model.Batch, error)
	UpdateFn   func(context.Context, int64, string, int64, bool) (*model.Batch, error)
	DeleteFn   func(context.Context, int64) error
}

func (s BatchFacadeStub) EligibleBatches(ctx context.Context, clientID, editingOrderID int64) ([]model.Batch, error) {
	if s.EligibleFn != nil {
		return s.EligibleFn(ctx, clientID, editingOrderID)
	}
	return nil, nil
}

func (s BatchFacadeStub) Batches(ctx context.Context) ([]model.Batch, error) {
	if s.BatchesFn != nil {
		return s.BatchesFn(ctx)
	}
	return nil, nil
}

func (s BatchFacadeStub) CreateBatch(ctx context.Context, rawDate string, capacity int64, opened bool) (*model.Batch, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, rawDate, capacity, opened)
	}
	return &model.Batch{ID: 1, Capacity: capacity, Opened: opened}, nil
}

func (s BatchFacadeStub) UpdateBatch(ctx context.Context, id int64, rawDate string, capacity int64, opened bool) (*model.Batch, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, rawDate, capacity, opened)
	}
	return &model.Batch{ID: id, Capacity: capacity, Opened: opened}, nil
}

func (s BatchFacadeStub) DeleteBatch(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, int64, int64, []model.LineRequest) (*model.Order, error)
	EditFn   func(context.Context, int64, int64, int64, []model.LineRequest) (*model.Order, error)
	CancelFn func(context.Context, int64, int64) error
	OrdersFn func(context.Context, int64) ([]model.Order, error)
	OrderFn  func(context.Context, int64, int64) (*model.Order, error)
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, clientID, batchID int64, lines []model.LineRequest) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, clientID, batchID, lines)
	}
	return &model.Order{ID: 1, ClientID: clientID, BatchID: batchID}, nil
}

func (s OrderFacadeStub) EditOrder(ctx context.Context, clientID, orderID, batchID int64, lines []model.LineRequest) (*model.Order, error) {
	if s.EditFn != nil {
		return s.EditFn(ctx, clientID, orderID, batchID, lines)
	}
	return &model.Order{ID: orderID, ClientID: clientID, BatchID: batchID}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, clientID, orderID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, clientID, orderID)
	}
	return nil
}

func (s OrderFacadeStub) Orders(ctx context.Context, clientID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, clientID)
	}
	return nil, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, clientID, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, clientID, orderID)
	}
	return &model.Order{ID: orderID, ClientID: clientID}, nil
}

// SettlementFacadeStub simulates wallets, payments and invoice sweeps.
type SettlementFacadeStub struct {
	WalletFn    func(context.Context, int64) (*model.WalletSummary, error)
	SweepFn     func(context.Context, string) (*model.SweepReport, error)
	WatermarkFn func(context.Context) (time.Time, error)
	PaymentFn   func(context.Context, int64, decimal.Decimal, model.PaymentMode, string) (*model.ManualPaymentResult, error)
}

func (s SettlementFacadeStub) Wallet(ctx context.Context, clientID int64) (*model.WalletSummary, error) {
	if s.WalletFn != nil {
		return s.WalletFn(ctx, clientID)
	}
	return &model.WalletSummary{}, nil
}

func (s SettlementFacadeStub) RunInvoiceSweep(ctx context.Context, rawAsOf string) (*model.SweepReport, error) {
	if s.SweepFn != nil {
		return s.SweepFn(ctx, rawAsOf)
	}
	return &model.SweepReport{Outcome: model.SweepNothingToSettle}, nil
}

func (s SettlementFacadeStub) Watermark(ctx context.Context) (time.Time, error) {
	if s.WatermarkFn != nil {
		return s.WatermarkFn(ctx)
	}
	return time.Unix(0, 0).UTC(), nil
}

func (s SettlementFacadeStub) ApplyManualPayment(ctx context.Context, clientID int64, amount decimal.Decimal, mode model.PaymentMode, reference string) (*model.ManualPaymentResult, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, clientID, amount, mode, reference)
	}
	return &model.ManualPaymentResult{Payment: model.Payment{ID: 1, ClientID: clientID, Amount: amount, Mode: mode}, Wallet: amount}, nil
}

// PlanFacadeStub simulates production plans.
type PlanFacadeStub struct {
	BatchesFn func(context.Context) ([]model.Batch, error)
	PlanFn    func(context.Context, int64) (*model.BatchPlan, error)
	ExportFn  func(context.Context, int64, io.Writer) error
}

func (s PlanFacadeStub) PlannableBatches(ctx context.Context) ([]model.Batch, error) {
	if s.BatchesFn != nil {
		return s.BatchesFn(ctx)
	}
	return nil, nil
}

func (s PlanFacadeStub) Plan(ctx context.Context, batchID int64) (*model.BatchPlan, error) {
	if s.PlanFn != nil {
		return s.PlanFn(ctx, batchID)
	}
	return &model.BatchPlan{Summary: model.BatchPlanSummary{Batch: model.Batch{ID: batchID}}}, nil
}

func (s PlanFacadeStub) ExportPlanCSV(ctx context.Context, batchID int64, w io.Writer) error {
	if s.ExportFn != nil {
		return s.ExportFn(ctx, batchID, w)
	}
	return nil
}

// HealthFacadeStub reports the configured error.
type HealthFacadeStub struct {
	Err error
}

func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// FacadeStub combines all facade stubs into the full handler facade.
type FacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	ClientFacadeStub
	BatchFacadeStub
	OrderFacadeStub
	SettlementFacadeStub
	PlanFacadeStub
	HealthFacadeStub
}
