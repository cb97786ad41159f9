package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "Active"
	SubscriptionStatusExpired SubscriptionStatus = "Expired"
)

// Subscription is one purchased pass. A user accumulates one row per
// purchase; the most recently created row is the current one. Expired is
// terminal: a subscription flips Active -> Expired exactly once (lazily at
// read time, or by admin override) and is never deleted.
type Subscription struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId"`
	Plan              string             `json:"plan"`
	Status            SubscriptionStatus `json:"status"`
	StartDate         time.Time          `json:"startDate"`
	ExpiryDate        time.Time          `json:"expiryDate"`
	RazorpayOrderID   string             `json:"razorpayOrderId"`
	RazorpayPaymentID string             `json:"razorpayPaymentId"`
	RazorpaySignature string             `json:"razorpaySignature"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}
