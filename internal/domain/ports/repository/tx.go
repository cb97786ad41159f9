package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. Repositories accept it alongside ctx;
// the concrete type is infra-defined (pgx.Tx for Postgres). nil (or NoTX)
// selects the non-transactional path.
type Tx interface{}

var NoTX Tx

// TransactionManager runs fn inside a database transaction, handing the
// transaction handle to fn so repository calls made with it share one commit.
// If fn returns an error the transaction is rolled back.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
