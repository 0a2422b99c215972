package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"qaqabot/internal/repository"
)

// Store implements repository.Store on PostgreSQL. All transactions run at
// SERIALIZABLE, so concurrent actions touching the same game are forced into a
// single-winner order; the losers surface as repository.ErrSerialization and
// are retried by the engine.
type Store struct {
	db *sql.DB
}

// NewStore creates a new postgres-backed store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx implements repository.Tx on a single *sql.Tx.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error {
	return wrapConflict(t.tx.Commit())
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// wrapConflict maps the SQLSTATEs postgres raises for concurrent-write losers
// (serialization_failure and deadlock_detected) to ErrSerialization. Any query
// inside a serializable transaction may raise them, not just the commit.
func wrapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == "40001" || pqErr.Code == "40P01") {
		return fmt.Errorf("%w: %v", repository.ErrSerialization, err)
	}
	return err
}
