package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
	"institute-backend/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subCols = `id, user_id, plan, status, start_date, expiry_date, razorpay_order_id, razorpay_payment_id, razorpay_signature, created_at, updated_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, user_id, plan, status, start_date, expiry_date, razorpay_order_id, razorpay_payment_id, razorpay_signature, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  status=$4, updated_at=$11;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.Plan, s.Status, s.StartDate, s.ExpiryDate, s.RazorpayOrderID, s.RazorpayPaymentID, s.RazorpaySignature, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	const q = `SELECT ` + subCols + ` FROM subscriptions WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *subscriptionRepo) FindLatestByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subCols + `
  FROM subscriptions
 WHERE user_id=$1
 ORDER BY created_at DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, userID)
}

func (r *subscriptionRepo) FindByOrder(ctx context.Context, tx repository.Tx, orderID string) (*model.Subscription, error) {
	const q = `SELECT ` + subCols + ` FROM subscriptions WHERE razorpay_order_id=$1 LIMIT 1;`
	return r.queryOne(ctx, tx, q, orderID)
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	const q = `UPDATE subscriptions SET status=$2, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) FindActiveExpiringWithin(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subCols + `
  FROM subscriptions
 WHERE status='Active'
   AND expiry_date > NOW()
   AND expiry_date <= NOW() + ($1::int * INTERVAL '1 day')
 ORDER BY expiry_date ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, withinDays)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) CountActive(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `SELECT COUNT(*) FROM subscriptions WHERE status='Active' AND expiry_date > NOW();`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *subscriptionRepo) queryOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.Subscription, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	s, err := scanSub(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSub(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	err := row.Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &s.StartDate, &s.ExpiryDate, &s.RazorpayOrderID, &s.RazorpayPaymentID, &s.RazorpaySignature, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}
