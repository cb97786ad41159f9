// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
	"institute-backend/internal/domain/ports/adapter"
	"institute-backend/internal/domain/ports/repository"
	"institute-backend/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase drives the purchase workflow: create a gateway order,
// authenticate the payment callback, and record the resulting subscription
// and payment as one unit.
type CheckoutUseCase interface {
	// InitiateOrder registers an order with the gateway and returns its
	// descriptor unmodified. Nothing is persisted locally.
	InitiateOrder(ctx context.Context, userID, planID string, claimedAmount int64) (*adapter.Order, error)
	// ConfirmPayment verifies the callback signature, re-fetches the order
	// for the authoritative amount, and records subscription + payment +
	// user pointer in one transaction. Safe to call repeatedly with the
	// same transaction identifiers.
	ConfirmPayment(ctx context.Context, userID, orderID, paymentID, signature, planID string) (*model.Subscription, *model.Payment, error)
	// History lists a user's recorded payments, newest first.
	History(ctx context.Context, userID string) ([]*model.Payment, error)
}

// Locker serializes confirmations that share an idempotency key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

type checkoutUC struct {
	catalog  *model.Catalog
	gateway  adapter.OrderGateway
	verifier adapter.SignatureVerifier
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	locker   Locker
	log      *zerolog.Logger
}

func NewCheckoutUseCase(
	catalog *model.Catalog,
	gateway adapter.OrderGateway,
	verifier adapter.SignatureVerifier,
	subs repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	locker Locker,
	logger *zerolog.Logger,
) *checkoutUC {
	l := logger.With().Str("component", "CheckoutUC").Logger()
	return &checkoutUC{
		catalog:  catalog,
		gateway:  gateway,
		verifier: verifier,
		subs:     subs,
		payments: payments,
		users:    users,
		tm:       tm,
		locker:   locker,
		log:      &l,
	}
}

func (u *checkoutUC) InitiateOrder(ctx context.Context, userID, planID string, claimedAmount int64) (*adapter.Order, error) {
	if userID == "" || claimedAmount <= 0 {
		return nil, domain.ErrMissingFields
	}
	if _, err := u.catalog.PriceOf(planID); err != nil {
		return nil, err
	}

	order, err := u.gateway.CreateOrder(ctx, planID, claimedAmount)
	if err != nil {
		return nil, err
	}
	metrics.IncOrderCreated()
	u.log.Info().Str("order_id", order.ID).Str("plan", planID).Int64("amount_paise", order.Amount).Msg("gateway order created")
	return order, nil
}

func (u *checkoutUC) ConfirmPayment(ctx context.Context, userID, orderID, paymentID, signature, planID string) (*model.Subscription, *model.Payment, error) {
	started := time.Now()
	defer func() { metrics.ObserveVerifyLatency(time.Since(started).Milliseconds()) }()

	if userID == "" || orderID == "" || paymentID == "" || signature == "" || planID == "" {
		return nil, nil, domain.ErrMissingFields
	}
	if _, err := u.catalog.PriceOf(planID); err != nil {
		return nil, nil, err
	}

	// No subscription or payment may ever be written without a positively
	// verified signature.
	if !u.verifier.Verify(orderID, paymentID, signature) {
		u.log.Warn().
			Str("security_event", "invalid_payment_signature").
			Str("order_id", orderID).
			Str("payment_id", paymentID).
			Msg("rejected payment callback")
		metrics.IncPayment("rejected")
		return nil, nil, domain.ErrInvalidSignature
	}

	// Serialize concurrent confirmations of the same transaction.
	if u.locker != nil {
		key := "confirm:" + orderID + "|" + paymentID
		token, err := u.locker.TryLock(ctx, key, 30*time.Second)
		if err != nil {
			return nil, nil, err
		}
		defer func() { _ = u.locker.Unlock(ctx, key, token) }()
	}

	// Idempotency fast path: an already-recorded transaction returns the
	// original records instead of creating a second pair.
	if prev, err := u.payments.FindByOrderAndPayment(ctx, repository.NoTX, orderID, paymentID); err == nil && prev != nil {
		metrics.IncPayment("duplicate")
		return u.previouslyRecorded(ctx, orderID, prev)
	}

	// The gateway, not the client, is authoritative for amount and currency.
	order, err := u.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	amountINR := (order.Amount + adapter.MinorUnitFactor/2) / adapter.MinorUnitFactor
	currency := order.Currency
	if currency == "" {
		currency = "INR"
	}

	now := time.Now()
	expiry, err := u.catalog.ComputeExpiry(planID, now)
	if err != nil {
		return nil, nil, err
	}

	sub := &model.Subscription{
		ID:                uuid.NewString(),
		UserID:            userID,
		Plan:              planID,
		Status:            model.SubscriptionStatusActive,
		StartDate:         now,
		ExpiryDate:        expiry,
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: signature,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	pay := &model.Payment{
		ID:        uuid.NewString(),
		UserID:    userID,
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: signature,
		Amount:    amountINR,
		Currency:  currency,
		Status:    model.PaymentStatusSuccess,
		Plan:      planID,
		CreatedAt: now,
	}

	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		// Payment first: its unique (order_id, payment_id) index is the
		// idempotency gate for racing confirmations.
		if err := u.payments.Save(ctx, tx, pay); err != nil {
			return err
		}
		if err := u.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		return u.users.SetCurrentSubscription(ctx, tx, userID, &sub.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			prev, ferr := u.payments.FindByOrderAndPayment(ctx, repository.NoTX, orderID, paymentID)
			if ferr != nil {
				return nil, nil, domain.ErrPersistenceFailure
			}
			metrics.IncPayment("duplicate")
			return u.previouslyRecorded(ctx, orderID, prev)
		}
		// The payment is real and verified but could not be recorded.
		u.log.Error().Err(err).
			Str("incident", "reconciliation_required").
			Str("order_id", orderID).
			Str("payment_id", paymentID).
			Str("user_id", userID).
			Msg("verified payment could not be recorded")
		metrics.IncPayment("persist_failed")
		return nil, nil, domain.ErrPersistenceFailure
	}

	metrics.IncPayment("success")
	u.log.Info().
		Str("order_id", orderID).
		Str("payment_id", paymentID).
		Str("subscription_id", sub.ID).
		Str("plan", planID).
		Int64("amount_inr", amountINR).
		Msg("payment verified and recorded")
	return sub, pay, nil
}

func (u *checkoutUC) History(ctx context.Context, userID string) ([]*model.Payment, error) {
	if userID == "" {
		return nil, domain.ErrMissingFields
	}
	return u.payments.ListByUser(ctx, repository.NoTX, userID)
}

func (u *checkoutUC) previouslyRecorded(ctx context.Context, orderID string, pay *model.Payment) (*model.Subscription, *model.Payment, error) {
	sub, err := u.subs.FindByOrder(ctx, repository.NoTX, orderID)
	if err != nil {
		return nil, nil, domain.ErrPersistenceFailure
	}
	return sub, pay, nil
}
