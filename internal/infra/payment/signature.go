package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"institute-backend/internal/domain/ports/adapter"
)

var _ adapter.SignatureVerifier = (*SignatureVerifier)(nil)

// SignatureVerifier authenticates Razorpay checkout callbacks:
// signature = hex(HMAC-SHA256(orderId + "|" + paymentId)) keyed with the
// merchant key secret.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier fails when the secret is absent; a missing secret is
// a startup error, not a per-request condition.
func NewSignatureVerifier(secret string) (*SignatureVerifier, error) {
	if secret == "" {
		return nil, errors.New("payment signature secret is required")
	}
	return &SignatureVerifier{secret: []byte(secret)}, nil
}

// Verify reports whether sig matches the expected digest. The comparison is
// constant-time.
func (v *SignatureVerifier) Verify(orderID, paymentID, sig string) bool {
	if orderID == "" || paymentID == "" || sig == "" {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
