package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgpostgres "github.com/umojafin/lms/pkg/postgres"
)

type txKey struct{}

// UnitOfWork runs a function inside a single database transaction. The
// transaction travels in the context, so every repository call made with the
// derived context joins it transparently.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a UnitOfWork backed by the given pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Execute runs fn atomically. An error from fn rolls the transaction back.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return pkgpostgres.WithTransaction(ctx, u.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// querier returns the transaction bound to ctx when one is present, falling
// back to the pool for standalone reads and writes.
func querier(ctx context.Context, pool *pgxpool.Pool) pkgpostgres.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}
