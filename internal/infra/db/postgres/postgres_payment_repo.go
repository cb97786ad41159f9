package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
	"institute-backend/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const payCols = `id, user_id, order_id, payment_id, signature, amount, currency, status, plan, created_at`

// Save inserts the payment record. The unique index on (order_id, payment_id)
// is the idempotency gate: a conflict maps to ErrDuplicateTransaction.
func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, order_id, payment_id, signature, amount, currency, status, plan, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.OrderID, p.PaymentID, p.Signature, p.Amount, p.Currency, p.Status, p.Plan, p.CreatedAt)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrDuplicateTransaction
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *paymentRepo) FindByOrderAndPayment(ctx context.Context, tx repository.Tx, orderID, paymentID string) (*model.Payment, error) {
	const q = `SELECT ` + payCols + ` FROM payments WHERE order_id=$1 AND payment_id=$2 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, orderID, paymentID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Payment, error) {
	const q = `SELECT ` + payCols + ` FROM payments WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *paymentRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='Success' AND created_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.UserID, &p.OrderID, &p.PaymentID, &p.Signature, &p.Amount, &p.Currency, &p.Status, &p.Plan, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}
