package model

import "time"

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "Success"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// Payment is the immutable record of one verified gateway transaction.
// Amount is in rupees, converted from the gateway-confirmed paise amount,
// never from a client-submitted figure. (OrderID, PaymentID) is unique and
// serves as the idempotency key for callback processing.
type Payment struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	OrderID   string        `json:"orderId"`
	PaymentID string        `json:"paymentId"`
	Signature string        `json:"signature"`
	Amount    int64         `json:"amount"`
	Currency  string        `json:"currency"`
	Status    PaymentStatus `json:"status"`
	Plan      string        `json:"plan"`
	CreatedAt time.Time     `json:"createdAt"`
}
