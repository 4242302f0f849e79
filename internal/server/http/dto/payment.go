package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest records a manual wallet credit.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"`
	Reference string          `json:"reference"`
}

// PaymentResponse is a wallet movement.
type PaymentResponse struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ManualPaymentResponse reports a manual payment and the orders it settled.
type ManualPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Settled []int64         `json:"settled_orders"`
	Wallet  decimal.Decimal `json:"wallet"`
}

// WalletResponse is the wallet balance with recent payments.
type WalletResponse struct {
	Balance  decimal.Decimal   `json:"balance"`
	Payments []PaymentResponse `json:"payments"`
}

// InvoiceRequest starts an invoice sweep.
type InvoiceRequest struct {
	AsOf string `json:"as_of"`
}

// InvoiceResponse summarises an invoice sweep.
type InvoiceResponse struct {
	AsOf       time.Time `json:"as_of"`
	Outcome    string    `json:"outcome"`
	Clients    int       `json:"clients"`
	Payments   int       `json:"payments"`
	Notified   int       `json:"notified"`
	Incomplete bool      `json:"notification_incomplete,omitempty"`
}

// WatermarkResponse is the last invoice date.
type WatermarkResponse struct {
	LastInvoiceDate time.Time `json:"last_invoice_date"`
}
