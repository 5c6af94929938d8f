// Package sqldb implements the secondary.Store port on database/sql via sqlx.
// It works against MySQL (production) and SQLite (local development and tests).
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/chimera/internal/core/catalog"
	"github.com/example/chimera/internal/ports/secondary"
)

// Store implements secondary.Store.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a Store over an open pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Begin opens a transaction.
func (s *Store) Begin(ctx context.Context, opts secondary.TxOptions) (secondary.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: opts.ReadOnly})
	if err != nil {
		return nil, classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	return &Tx{tx: tx}, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &catalog.ConnectivityError{Err: err}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx implements secondary.Tx.
type Tx struct {
	tx *sqlx.Tx
}

// Exec runs a statement that returns no rows.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (catalog.ExecResult, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return catalog.ExecResult{}, classify(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return catalog.ExecResult{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	out := catalog.ExecResult{RowsAffected: affected}
	// SQLite keeps the connection's last rowid across UPDATE and DELETE,
	// so the id is only read back for inserts.
	if isInsert(query) {
		if out.LastInsertID, err = res.LastInsertId(); err != nil {
			return catalog.ExecResult{}, fmt.Errorf("failed to read last insert id: %w", err)
		}
	}
	return out, nil
}

func isInsert(query string) bool {
	q := strings.TrimSpace(query)
	return len(q) >= 6 && strings.EqualFold(q[:6], "INSERT")
}

// Query runs a statement and materializes every row.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*catalog.RowSet, error) {
	rows, err := t.tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := &catalog.RowSet{Columns: columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, classify(fmt.Errorf("failed to scan row: %w", err))
		}
		for i, v := range values {
			// MySQL hands back text and DECIMAL columns as bytes.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	return rs, nil
}

// Commit makes the transaction's effects visible.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

// Rollback discards the transaction's effects. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return classify(err)
	}
	return nil
}

// Ensure Store implements the interface
var _ secondary.Store = (*Store)(nil)
