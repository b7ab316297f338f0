// Package gateway talks to the external payment provider
package gateway

import (
	"context"
	"encoding/json"
)

// Order provider-side order created for a checkout
type Order struct {
	ID       string          `json:"id"`
	Amount   int64           `json:"amount"` // minor units (paise)
	Currency string          `json:"currency"`
	Receipt  string          `json:"receipt"`
	Status   string          `json:"status"`
	Raw      json.RawMessage `json:"-"`
}

// PaymentGateway external payment collaborator
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// ToMinorUnits converts a two-decimal amount to the provider's integer unit
func ToMinorUnits(amount float64) int64 {
	if amount < 0 {
		return -ToMinorUnits(-amount)
	}
	return int64(amount*100 + 0.5)
}
