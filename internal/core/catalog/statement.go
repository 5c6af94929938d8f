package catalog

import "context"

// Statement is a parameterized SQL statement owned by the catalog. Its text
// can only be set inside this package, from constants, so caller input can
// reach storage only as a bound argument.
type Statement struct {
	name string
	text string
}

func statement(name, text string) Statement {
	return Statement{name: name, text: text}
}

// Name identifies the statement in logs.
func (s Statement) Name() string { return s.name }

// SQL returns the statement text with ? placeholders.
func (s Statement) SQL() string { return s.text }

// IsZero reports whether s was built outside the catalog.
func (s Statement) IsZero() bool { return s.text == "" }

// ExecResult is what a write statement reports back.
type ExecResult struct {
	RowsAffected int64
	LastInsertID int64
}

// Runner executes catalog statements inside the current unit of work.
type Runner interface {
	Exec(ctx context.Context, stmt Statement, args ...any) (ExecResult, error)
	Query(ctx context.Context, stmt Statement, args ...any) (*RowSet, error)
}
