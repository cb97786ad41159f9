package adapter

import "context"

// MinorUnitFactor converts between rupees and paise.
const MinorUnitFactor = 100

// Order is the gateway-side descriptor of an intended payment. It is owned
// by the provider and referenced here, never stored authoritatively. Amount
// is in minor units (paise), as the provider reports it.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Receipt  string `json:"receipt"`
	Plan     string `json:"plan"`
}

// OrderGateway is the hex port for the payment provider's order API. One
// outbound call per invocation, no local state, no automatic retries.
type OrderGateway interface {
	Name() string
	// CreateOrder registers a new order with the provider. amountMajor is in
	// rupees and is converted to paise before the call.
	CreateOrder(ctx context.Context, planID string, amountMajor int64) (*Order, error)
	// FetchOrder returns the authoritative order state by provider id.
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
}

// SignatureVerifier authenticates a checkout callback. A mismatch is a
// plain false, never an error.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}
