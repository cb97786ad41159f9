package repository

import (
	"context"

	"institute-backend/internal/domain/model"
)

type PaymentRepository interface {
	// Save inserts a new payment record. A second insert with the same
	// (orderID, paymentID) pair fails with domain.ErrDuplicateTransaction.
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByOrderAndPayment(ctx context.Context, tx Tx, orderID, paymentID string) (*model.Payment, error)
	// ListByUser returns the user's payments, newest first.
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Payment, error)
	// SumByPeriod totals successful payment amounts since the start of the
	// current period ("week" | "month" | "year").
	SumByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
