package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs callbacks inside a transaction carried in the context; see
// QuerierFromCtx. Nested RunInTx calls open independent transactions.
type TxManager struct {
	pool        *pgxpool.Pool
	opts        pgx.TxOptions
	maxAttempts uint64
	retryWait   time.Duration
}

// TxOption configures a TxManager.
type TxOption func(*TxManager)

// WithIsolation sets the isolation level of every transaction.
func WithIsolation(level pgx.TxIsoLevel) TxOption {
	return func(m *TxManager) { m.opts.IsoLevel = level }
}

// WithAttempts bounds how many times a transaction failing with a
// serialization failure or deadlock is run. One disables retries.
func WithAttempts(n uint64) TxOption {
	return func(m *TxManager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// NewTxManager creates a TxManager. The default is Read Committed with up
// to three attempts.
func NewTxManager(pool *pgxpool.Pool, opts ...TxOption) *TxManager {
	m := &TxManager{
		pool:        pool,
		opts:        pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		maxAttempts: 3,
		retryWait:   20 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunInTx executes fn within a transaction and commits when it returns nil.
// Errors roll back. A panic rolls back and re-panics. When the database
// aborts the transaction for a serialization failure or deadlock, the whole
// callback runs again in a fresh transaction, so fn must not have side
// effects outside the database.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.retryWait
	b.MaxElapsedTime = 0

	var attempt uint64
	return backoff.Retry(func() error {
		attempt++
		err := m.runOnce(ctx, fn)
		if err != nil && (!IsRetryable(err) || attempt >= m.maxAttempts) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

func (m *TxManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback failed: %w (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
