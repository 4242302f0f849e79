package handlers

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, reg model.SignUp) (*model.Client, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.Client, string, error)
	ParseToken(token string) (int64, error)
	IsAdmin(ctx context.Context, clientID int64) (bool, error)
}

// CatalogFacade exposes products and delivery points.
type CatalogFacade interface {
	Products(ctx context.Context, availableOnly bool) ([]model.Product, error)
	Repositories(ctx context.Context, openedOnly bool) ([]model.Repository, error)
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	CreateRepository(ctx context.Context, r model.Repository) (*model.Repository, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	UpdateRepository(ctx context.Context, r model.Repository) (*model.Repository, error)
}

// ClientFacade manages client accounts and mailings.
type ClientFacade interface {
	Clients(ctx context.Context) ([]model.Client, error)
	SetClientDisabled(ctx context.Context, id int64, disabled bool) (*model.Client, error)
	SendMailing(ctx context.Context, m model.Mailing) (*model.MailingReport, error)
}

// BatchFacade manages production batches. Raw dates are RFC 3339 or YYYY-MM-DD.
type BatchFacade interface {
	EligibleBatches(ctx context.Context, clientID, editingOrderID int64) ([]model.Batch, error)
	Batches(ctx context.Context) ([]model.Batch, error)
	CreateBatch(ctx context.Context, rawDate string, capacity int64, opened bool) (*model.Batch, error)
	UpdateBatch(ctx context.Context, id int64, rawDate string, capacity int64, opened bool) (*model.Batch, error)
	DeleteBatch(ctx context.Context, id int64) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, clientID, batchID int64, lines []model.LineRequest) (*model.Order, error)
	EditOrder(ctx context.Context, clientID, orderID, batchID int64, lines []model.LineRequest) (*model.Order, error)
	CancelOrder(ctx context.Context, clientID, orderID int64) error
	Orders(ctx context.Context, clientID int64) ([]model.Order, error)
	Order(ctx context.Context, clientID, orderID int64) (*model.Order, error)
}

// SettlementFacade covers wallets, payments and invoice sweeps.
type SettlementFacade interface {
	Wallet(ctx context.Context, clientID int64) (*model.WalletSummary, error)
	RunInvoiceSweep(ctx context.Context, rawAsOf string) (*model.SweepReport, error)
	Watermark(ctx context.Context) (time.Time, error)
	ApplyManualPayment(ctx context.Context, clientID int64, amount decimal.Decimal, mode model.PaymentMode, reference string) (*model.ManualPaymentResult, error)
}

// PlanFacade provides the production views of a batch.
type PlanFacade interface {
	PlannableBatches(ctx context.Context) ([]model.Batch, error)
	Plan(ctx context.Context, batchID int64) (*model.BatchPlan, error)
	ExportPlanCSV(ctx context.Context, batchID int64, w io.Writer) error
}

// HealthFacade reports backend availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	AuthFacade
	CatalogFacade
	ClientFacade
	BatchFacade
	OrderFacade
	SettlementFacade
	PlanFacade
	HealthFacade
}
