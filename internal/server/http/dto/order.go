package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var errQuantityType = errors.New("quantity must be a number or a string")

// Quantity keeps the raw text of a quantity sent as a JSON number or string.
// Parsing and range checks happen later, so "" and null mean zero.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*q = Quantity(data)
	default:
		return errQuantityType
	}
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(q))
}

// OrderLineRequest is a requested quantity.
type OrderLineRequest struct {
	ProductID int64    `json:"product_id"`
	Quantity  Quantity `json:"quantity"`
}

// OrderRequest creates or edits an order.
type OrderRequest struct {
	BatchID int64              `json:"batch_id"`
	Lines   []OrderLineRequest `json:"lines"`
}

// OrderLineResponse is a priced order line.
type OrderLineResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderResponse describes an order.
type OrderResponse struct {
	ID        int64               `json:"id"`
	BatchID   int64               `json:"batch_id"`
	BatchDate time.Time           `json:"batch_date"`
	Total     decimal.Decimal     `json:"total"`
	Settled   bool                `json:"settled"`
	CreatedAt time.Time           `json:"created_at"`
	Lines     []OrderLineResponse `json:"lines"`
}
