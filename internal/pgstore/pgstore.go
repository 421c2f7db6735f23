// Package pgstore is the Postgres-backed implementation of internal/store's
// contracts (spec §6). Grounded on the teacher's
// infrastructure/persistence/postgres_repository.go: plain database/sql with
// lib/pq for array parameters, one struct wrapping *sql.DB, one query per
// method, no ORM.
package pgstore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/synapsec/core/internal/config"
	"github.com/synapsec/core/internal/store"
)

// Store implements store.Store against a real Postgres connection pool.
type Store struct {
	*base
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to Postgres and bounds the pool per spec §6's "connection
// pooling" note (configured max, default 10).
func Open(cfg config.DatabaseConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{base: &base{q: db}, db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying pool for health checks and migrations.
func (s *Store) DB() *sql.DB { return s.db }
