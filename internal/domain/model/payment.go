package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode tells how a payment was made.
type PaymentMode string

const (
	PaymentModeOrder    PaymentMode = "order"
	PaymentModeCheck    PaymentMode = "payed_by_check"
	PaymentModeCash     PaymentMode = "payed_in_cash"
	PaymentModeOnline   PaymentMode = "payed_online"
	PaymentModeNotPayed PaymentMode = "not_payed"
)

// Manual reports whether an admin may record a payment with this mode.
func (m PaymentMode) Manual() bool {
	switch m {
	case PaymentModeCheck, PaymentModeCash, PaymentModeOnline:
		return true
	default:
		return false
	}
}

// Payment is a wallet movement. Negative amounts debit an order.
type Payment struct {
	ID        int64
	ClientID  int64
	Amount    decimal.Decimal
	Mode      PaymentMode
	Reference string
	CreatedAt time.Time
}

// WalletSummary is the wallet balance with recent payments.
type WalletSummary struct {
	Balance  decimal.Decimal
	Payments []Payment
}

// ManualPaymentResult describes an admin payment and the orders it settled.
type ManualPaymentResult struct {
	Payment Payment
	Settled []Order
	Wallet  decimal.Decimal
}
