package db

import (
	"context"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tada/internal/observability/metrics"
)

type TxManager interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type PgTxManager struct {
	pool *pgxpool.Pool
}

func NewPgTxManager(pool *pgxpool.Pool) *PgTxManager {
	return &PgTxManager{pool: pool}
}

// WithTx commits when fn returns nil and rolls back otherwise, including on
// panic.
func (m *PgTxManager) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		metrics.DBTransactionsTotal.WithLabelValues("begin_failed").Inc()
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactionsTotal.WithLabelValues("panic").Inc()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactionsTotal.WithLabelValues("rolled_back").Inc()
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			metrics.DBTransactionsTotal.WithLabelValues("commit_failed").Inc()
			err = fmt.Errorf("failed to commit tx: %w", commitErr)
			return
		}
		metrics.DBTransactionsTotal.WithLabelValues("committed").Inc()
	}()

	return fn(ctx, tx)
}
