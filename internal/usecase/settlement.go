package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

const walletHistoryLimit = 15

// StatementSender delivers a settlement statement to a client.
type StatementSender interface {
	SendStatement(ctx context.Context, statement model.ClientStatement) error
}

// SettlementUseCase pays orders from client wallets.
type SettlementUseCase struct {
	store      repository.Store
	statements StatementSender
	logger     *slog.Logger

	// mu keeps a single sweep running per process; the watermark row lock
	// covers other processes.
	mu sync.Mutex
}

// NewSettlementUseCase constructs SettlementUseCase.
func NewSettlementUseCase(store repository.Store, statements StatementSender, logger *slog.Logger) *SettlementUseCase {
	return &SettlementUseCase{store: store, statements: statements, logger: logger}
}

// RunInvoiceSweep pays, oldest first, every unpaid order created up to asOf
// that the client's wallet covers, then moves the watermark to asOf.
// Statements are queued after commit. When some cannot be queued the report
// is returned together with ErrNotificationIncomplete.
func (u *SettlementUseCase) RunInvoiceSweep(ctx context.Context, asOf time.Time) (*model.SweepReport, error) {
	if asOf.IsZero() {
		return nil, domainErrors.ErrInvalidDate
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	report := &model.SweepReport{AsOf: asOf, Outcome: model.SweepNothingToSettle}
	var (
		payers []int64
		paid   map[int64][]model.Order
	)

	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		report.Clients, report.Payments = 0, 0
		payers, paid = nil, make(map[int64][]model.Order)

		last, err := f.Settlement().LockWatermark(ctx)
		if err != nil {
			return err
		}
		if !asOf.After(last) {
			return domainErrors.ErrWatermarkNotAdvanced
		}

		clients, err := f.Orders().ClientsWithUnpaid(ctx, asOf)
		if err != nil {
			return err
		}
		slices.Sort(clients)
		report.Clients = len(clients)

		for _, clientID := range clients {
			orders, _, err := autoPay(ctx, f, clientID, asOf)
			if err != nil {
				return fmt.Errorf("client %d: %w", clientID, err)
			}
			if len(orders) == 0 {
				continue
			}
			payers = append(payers, clientID)
			paid[clientID] = orders
			report.Payments += len(orders)
		}

		return f.Settlement().AdvanceWatermark(ctx, asOf)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrWatermarkNotAdvanced) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrSettlementFailed, err)
	}

	if report.Payments > 0 {
		report.Outcome = model.SweepSettled
	}

	u.logger.Info("invoice sweep committed",
		slog.Time("as_of", asOf),
		slog.Int("clients", report.Clients),
		slog.Int("payments", report.Payments))

	var failed int
	for _, clientID := range payers {
		statement, err := u.statement(ctx, clientID, asOf, paid[clientID])
		if err != nil {
			failed++
			u.logger.Error("statement build failed", slog.Int64("client_id", clientID), slog.String("error", err.Error()))
			continue
		}
		report.Statements = append(report.Statements, *statement)
		if u.statements == nil {
			continue
		}
		if err := u.statements.SendStatement(ctx, *statement); err != nil {
			failed++
			u.logger.Warn("statement not queued", slog.Int64("client_id", clientID), slog.String("error", err.Error()))
			continue
		}
		report.Notified++
	}
	if failed > 0 {
		return report, fmt.Errorf("%w: %d of %d statements", domainErrors.ErrNotificationIncomplete, failed, len(payers))
	}
	return report, nil
}

// ApplyManualPayment credits the wallet and settles the client's unpaid
// orders dated up to the last invoice date.
func (u *SettlementUseCase) ApplyManualPayment(ctx context.Context, clientID int64, amount decimal.Decimal, mode model.PaymentMode, reference string) (*model.ManualPaymentResult, error) {
	if amount.IsZero() {
		return nil, domainErrors.ErrInvalidAmount
	}
	if !mode.Manual() {
		return nil, domainErrors.ErrInvalidPaymentMode
	}

	var result *model.ManualPaymentResult
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		watermark, err := f.Settlement().LockWatermark(ctx)
		if err != nil {
			return err
		}
		if _, err := f.Clients().LockWallet(ctx, clientID); err != nil {
			return err
		}

		payment, err := f.Payments().Create(ctx, model.Payment{
			ClientID:  clientID,
			Amount:    amount,
			Mode:      mode,
			Reference: reference,
		})
		if err != nil {
			return err
		}
		if _, err := f.Clients().AddToWallet(ctx, clientID, amount); err != nil {
			return err
		}

		settled, wallet, err := autoPay(ctx, f, clientID, watermark)
		if err != nil {
			return err
		}

		result = &model.ManualPaymentResult{Payment: *payment, Settled: settled, Wallet: wallet}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("manual payment recorded",
		slog.Int64("client_id", clientID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("mode", string(mode)),
		slog.Int("settled", len(result.Settled)))
	return result, nil
}

// Wallet returns the balance and the latest payments of the client.
func (u *SettlementUseCase) Wallet(ctx context.Context, clientID int64) (*model.WalletSummary, error) {
	client, err := u.store.Clients().GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	payments, err := u.store.Payments().ListByClient(ctx, clientID, walletHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &model.WalletSummary{Balance: client.Wallet, Payments: payments}, nil
}

// Watermark returns the last invoice date.
func (u *SettlementUseCase) Watermark(ctx context.Context) (time.Time, error) {
	return u.store.Settlement().Watermark(ctx)
}

func (u *SettlementUseCase) statement(ctx context.Context, clientID int64, asOf time.Time, paid []model.Order) (*model.ClientStatement, error) {
	client, err := u.store.Clients().GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	orders, err := u.store.Orders().ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	var outstanding []model.Order
	for _, o := range orders {
		if !o.Settled() && !o.CreatedAt.After(asOf) {
			outstanding = append(outstanding, o)
		}
	}
	return &model.ClientStatement{
		Client:      *client,
		AsOf:        asOf,
		Paid:        paid,
		Outstanding: outstanding,
		Wallet:      client.Wallet,
	}, nil
}

// autoPay walks the client's unpaid orders created up to asOf, oldest first,
// and pays each from the wallet. It stops at the first order the wallet
// cannot cover. The returned balance is the wallet after the last payment.
func autoPay(ctx context.Context, f repository.Factory, clientID int64, asOf time.Time) ([]model.Order, decimal.Decimal, error) {
	wallet, err := f.Clients().LockWallet(ctx, clientID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	orders, err := f.Orders().LockUnpaid(ctx, clientID, asOf)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var paid []model.Order
	for _, order := range orders {
		if order.Total.GreaterThan(wallet) {
			break
		}
		payment, err := f.Payments().Create(ctx, model.Payment{
			ClientID:  clientID,
			Amount:    order.Total.Neg(),
			Mode:      model.PaymentModeOrder,
			Reference: strconv.FormatInt(order.ID, 10),
		})
		if err != nil {
			return nil, decimal.Zero, err
		}
		if wallet, err = f.Clients().AddToWallet(ctx, clientID, order.Total.Neg()); err != nil {
			return nil, decimal.Zero, err
		}
		if err := f.Orders().AttachPayment(ctx, order.ID, payment.ID); err != nil {
			return nil, decimal.Zero, err
		}
		paymentID := payment.ID
		order.PaymentID = &paymentID
		paid = append(paid, order)
	}
	return paid, wallet, nil
}
