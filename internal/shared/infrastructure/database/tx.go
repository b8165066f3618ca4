package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned when Commit or Rollback run without Begin.
var ErrNoTransaction = errors.New("no transaction in context")

type txKey struct{}

type txState struct {
	tx    Transaction
	owner bool
}

// WithTx stores tx in ctx. owner marks the unit of work that must finish it.
func WithTx(ctx context.Context, tx Transaction, owner bool) context.Context {
	return context.WithValue(ctx, txKey{}, txState{tx: tx, owner: owner})
}

// TxFromContext returns the transaction carried by ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	state, ok := ctx.Value(txKey{}).(txState)
	if !ok {
		return nil
	}
	return state.tx
}

// ExecutorFromContext returns the active transaction if there is one and
// the plain connection otherwise.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

// UnitOfWork runs a group of repository calls in one transaction.
// Nested Begin calls join the outer transaction instead of opening a new one.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a UnitOfWork bound to conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// Begin opens a transaction, or joins the one already in ctx.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx := TxFromContext(ctx); tx != nil {
		return WithTx(ctx, tx, false), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

// Commit commits when ctx owns the transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	return finish(ctx, Transaction.Commit)
}

// Rollback rolls back when ctx owns the transaction.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return finish(ctx, Transaction.Rollback)
}

func finish(ctx context.Context, fn func(Transaction, context.Context) error) error {
	state, ok := ctx.Value(txKey{}).(txState)
	if !ok || state.tx == nil {
		return ErrNoTransaction
	}
	if !state.owner {
		return nil
	}
	return fn(state.tx, ctx)
}
