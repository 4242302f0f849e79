package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	testhelpers "github.com/polkiloo/fournil/internal/test"
)

// placeOrders creates one order per new batch, a minute apart, for the given
// totals built from 1.00 rolls.
func (f *fixture) placeOrders(clientID int64, totals ...int) []*model.Order {
	f.t.Helper()
	orders := make([]*model.Order, 0, len(totals))
	for _, total := range totals {
		f.nextDay++
		b := f.batch(f.nextDay, 100)
		o, err := f.orders().Create(context.Background(), clientID, b.ID, []model.LineRequest{qty(f.roll.ID, total)})
		require.NoError(f.t, err)
		orders = append(orders, o)
		f.clock.Advance(time.Minute)
	}
	return orders
}

func (f *fixture) order(clientID, orderID int64) *model.Order {
	f.t.Helper()
	o, err := f.orders().Get(context.Background(), clientID, orderID)
	require.NoError(f.t, err)
	return o
}

func TestInvoiceSweepPaysOldestFirstAndStops(t *testing.T) {
	f := newFixture(t)
	client := f.fundedClient("alice", "15")
	orders := f.placeOrders(client.ID, 10, 8, 3)
	queue := &testhelpers.QueueStub{}

	asOf := f.clock.Now()
	report, err := f.settlement(queue).RunInvoiceSweep(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, model.SweepSettled, report.Outcome)
	require.Equal(t, 1, report.Clients)
	require.Equal(t, 1, report.Payments)
	require.Equal(t, 1, report.Notified)

	require.True(t, f.order(client.ID, orders[0].ID).Settled())
	require.False(t, f.order(client.ID, orders[1].ID).Settled())
	require.False(t, f.order(client.ID, orders[2].ID).Settled(), "sweep stops at the first order the wallet cannot cover")
	require.True(t, f.wallet(client.ID).Equal(dec("5")))

	require.Len(t, report.Statements, 1)
	st := report.Statements[0]
	require.Len(t, st.Paid, 1)
	require.Len(t, st.Outstanding, 2)
	require.True(t, st.Wallet.Equal(dec("5")))

	sent := queue.Messages()
	require.Len(t, sent, 1)
	require.Equal(t, model.PriorityBulk, sent[0].Priority)
	require.Equal(t, "alice@example.org", sent[0].Message.To)
	require.Equal(t, "Statement of 2026-03-09", sent[0].Message.Subject)
	require.Contains(t, sent[0].Message.Body, "Paid total: 10.00")
	require.Contains(t, sent[0].Message.Body, "Outstanding total: 11.00")
	require.Contains(t, sent[0].Message.Body, "Wallet balance: 5.00")

	watermark, err := f.settlement(nil).Watermark(context.Background())
	require.NoError(t, err)
	require.True(t, watermark.Equal(asOf))

	wallet, err := f.settlement(nil).Wallet(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, wallet.Payments, 1)
	require.Equal(t, model.PaymentModeOrder, wallet.Payments[0].Mode)
	require.True(t, wallet.Payments[0].Amount.Equal(dec("-10")))
}

func TestInvoiceSweepIgnoresLaterOrders(t *testing.T) {
	f := newFixture(t)
	client := f.fundedClient("alice", "100")
	early := f.placeOrders(client.ID, 5)[0]
	asOf := f.clock.Now()
	f.clock.Advance(time.Hour)
	late, err := f.orders().Create(context.Background(), client.ID, f.batch(6, 10).ID, []model.LineRequest{qty(f.bread.ID, 1)})
	require.NoError(t, err)

	report, err := f.settlement(nil).RunInvoiceSweep(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, 1, report.Payments)
	require.True(t, f.order(client.ID, early.ID).Settled())
	require.False(t, f.order(client.ID, late.ID).Settled())
	require.True(t, f.wallet(client.ID).Equal(dec("95")))
}

func TestInvoiceSweepWatermark(t *testing.T) {
	f := newFixture(t)
	uc := f.settlement(nil)
	ctx := context.Background()

	_, err := uc.RunInvoiceSweep(ctx, time.Time{})
	require.ErrorIs(t, err, domainErrors.ErrInvalidDate)

	report, err := uc.RunInvoiceSweep(ctx, monday)
	require.NoError(t, err)
	require.Equal(t, model.SweepNothingToSettle, report.Outcome)

	_, err = uc.RunInvoiceSweep(ctx, monday)
	require.ErrorIs(t, err, domainErrors.ErrWatermarkNotAdvanced)
	require.False(t, errors.Is(err, domainErrors.ErrSettlementFailed))

	_, err = uc.RunInvoiceSweep(ctx, monday.Add(-time.Hour))
	require.ErrorIs(t, err, domainErrors.ErrWatermarkNotAdvanced)

	watermark, err := uc.Watermark(ctx)
	require.NoError(t, err)
	require.True(t, watermark.Equal(monday))
}

func TestInvoiceSweepRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.fundedClient("alice", "50")
	bob := f.fundedClient("bob", "50")
	f.placeOrders(alice.ID, 10)
	bobOrders := f.placeOrders(bob.ID, 10)
	asOf := f.clock.Now()

	f.store.FailOn("Orders.AttachPayment", errors.New("lost connection"))
	_, err := f.settlement(nil).RunInvoiceSweep(context.Background(), asOf)
	require.ErrorIs(t, err, domainErrors.ErrSettlementFailed)

	require.True(t, f.wallet(alice.ID).Equal(dec("50")))
	require.True(t, f.wallet(bob.ID).Equal(dec("50")))
	require.Zero(t, f.store.PaymentCount(alice.ID))
	watermark, err := f.settlement(nil).Watermark(context.Background())
	require.NoError(t, err)
	require.True(t, watermark.Equal(time.Unix(0, 0)))

	f.store.FailOn("Orders.AttachPayment", nil)
	report, err := f.settlement(nil).RunInvoiceSweep(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, 2, report.Payments)
	require.True(t, f.order(bob.ID, bobOrders[0].ID).Settled())
}

func TestInvoiceSweepNotificationIncomplete(t *testing.T) {
	f := newFixture(t)
	alice := f.fundedClient("alice", "50")
	f.placeOrders(alice.ID, 10)
	silent := f.fundedClient("silent", "50")
	silent.Email = ""
	f.store.AddClient(silent)
	f.placeOrders(silent.ID, 10)
	queue := &testhelpers.QueueStub{}

	report, err := f.settlement(queue).RunInvoiceSweep(context.Background(), f.clock.Now())
	require.ErrorIs(t, err, domainErrors.ErrNotificationIncomplete)
	require.NotNil(t, report)
	require.Equal(t, 2, report.Payments)
	require.Equal(t, 1, report.Notified)
	require.Len(t, queue.Messages(), 1)

	watermark, err := f.settlement(nil).Watermark(context.Background())
	require.NoError(t, err)
	require.True(t, watermark.Equal(report.AsOf), "settlement stays committed")
}

func TestInvoiceSweepQueueRejects(t *testing.T) {
	f := newFixture(t)
	alice := f.fundedClient("alice", "50")
	f.placeOrders(alice.ID, 10)

	report, err := f.settlement(&testhelpers.QueueStub{Err: errors.New("queue full")}).RunInvoiceSweep(context.Background(), f.clock.Now())
	require.ErrorIs(t, err, domainErrors.ErrNotificationIncomplete)
	require.Zero(t, report.Notified)
	require.True(t, f.wallet(alice.ID).Equal(dec("40")))
}

func TestManualPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client("alice")
	orders := f.placeOrders(client.ID, 10, 8)
	f.store.SetWatermark(f.clock.Now())
	f.clock.Advance(time.Hour)
	late, err := f.orders().Create(ctx, client.ID, f.batch(7, 10).ID, []model.LineRequest{qty(f.bread.ID, 1)})
	require.NoError(t, err)

	uc := f.settlement(nil)
	_, err = uc.ApplyManualPayment(ctx, client.ID, dec("0"), model.PaymentModeCash, "")
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)
	_, err = uc.ApplyManualPayment(ctx, client.ID, dec("5"), model.PaymentModeOrder, "")
	require.ErrorIs(t, err, domainErrors.ErrInvalidPaymentMode)
	_, err = uc.ApplyManualPayment(ctx, 999, dec("5"), model.PaymentModeCash, "")
	require.ErrorIs(t, err, domainErrors.ErrNotFound)

	result, err := uc.ApplyManualPayment(ctx, client.ID, dec("12"), model.PaymentModeCheck, "cheque 42")
	require.NoError(t, err)
	require.Equal(t, model.PaymentModeCheck, result.Payment.Mode)
	require.Equal(t, "cheque 42", result.Payment.Reference)
	require.Len(t, result.Settled, 1)
	require.Equal(t, orders[0].ID, result.Settled[0].ID)
	require.True(t, result.Wallet.Equal(dec("2")))

	result, err = uc.ApplyManualPayment(ctx, client.ID, dec("50"), model.PaymentModeOnline, "")
	require.NoError(t, err)
	require.Len(t, result.Settled, 1)
	require.True(t, result.Wallet.Equal(dec("44")))
	require.False(t, f.order(client.ID, late.ID).Settled(), "orders after the last invoice date wait for the next sweep")

	wallet, err := uc.Wallet(ctx, client.ID)
	require.NoError(t, err)
	require.True(t, wallet.Balance.Equal(dec("44")))
	require.Len(t, wallet.Payments, 4)
}

func TestManualPaymentRollsBack(t *testing.T) {
	f := newFixture(t)
	client := f.client("alice")
	f.store.FailOn("Clients.AddToWallet", errors.New("boom"))

	_, err := f.settlement(nil).ApplyManualPayment(context.Background(), client.ID, dec("5"), model.PaymentModeCash, "")
	require.Error(t, err)
	require.Zero(t, f.store.PaymentCount(client.ID))
}

func TestConcurrentPaymentsSettleOnce(t *testing.T) {
	f := newFixture(t)
	client := f.client("alice")
	order := f.placeOrders(client.ID, 5)[0]
	asOf := f.clock.Now()
	f.store.SetWatermark(asOf)
	uc := f.settlement(nil)

	const payments = 10
	var wg sync.WaitGroup
	errs := make([]error, payments+1)
	for i := 0; i < payments; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ApplyManualPayment(context.Background(), client.ID, dec("1"), model.PaymentModeCash, "")
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[payments] = uc.RunInvoiceSweep(context.Background(), asOf.Add(time.Second))
	}()
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.True(t, f.order(client.ID, order.ID).Settled())
	require.True(t, f.wallet(client.ID).Equal(dec("5")))
	require.Equal(t, payments+1, f.store.PaymentCount(client.ID))
}

func TestStatementOmitsOrdersAfterAsOf(t *testing.T) {
	f := newFixture(t)
	client := f.fundedClient("alice", "10")
	f.placeOrders(client.ID, 10, 20)
	asOf := f.clock.Now()
	f.clock.Advance(time.Hour)
	_, err := f.orders().Create(context.Background(), client.ID, f.batch(8, 10).ID, []model.LineRequest{qty(f.bread.ID, 1)})
	require.NoError(t, err)

	report, err := f.settlement(&testhelpers.QueueStub{}).RunInvoiceSweep(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, report.Statements, 1)
	outstanding := report.Statements[0].Outstanding
	require.Len(t, outstanding, 1)
	require.True(t, outstanding[0].Total.Equal(dec("20")))
}
