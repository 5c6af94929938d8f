// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/chimera/internal/core/catalog"
)

// Store defines the secondary port for the relational database.
type Store interface {
	// Begin opens a transaction. Read-only transactions give a consistent read.
	Begin(ctx context.Context, opts TxOptions) (Tx, error)

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}

// TxOptions configures a transaction.
type TxOptions struct {
	ReadOnly bool
}

// Tx is one open unit of work. Errors returned by Exec, Query and Commit are
// already classified into the catalog error types where the driver allows it.
type Tx interface {
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) (catalog.ExecResult, error)

	// Query runs a statement and materializes every row.
	Query(ctx context.Context, query string, args ...any) (*catalog.RowSet, error)

	// Commit makes every statement's effect visible.
	Commit() error

	// Rollback discards every statement's effect. It is a no-op after Commit.
	Rollback() error
}
