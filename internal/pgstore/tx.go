package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/synapsec/core/internal/store"
)

// querier is satisfied by both *sql.DB and *sql.Tx, letting every base method
// below run unchanged whether it's part of a transaction or not — mirrors
// the teacher's PostgresRepository/PostgresTransaction pair, minus the
// copy-pasted method bodies.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// base implements every store.Store read/write method against a querier.
type base struct {
	q querier
}

// Tx is the transaction-scoped handle returned by Store.BeginTx.
type Tx struct {
	*base
	tx *sql.Tx
}

var _ store.Tx = (*Tx)(nil)

func (s *Store) BeginTx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{base: &base{q: tx}, tx: tx}, nil
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }
