// Package catalog defines every operation the client can run against the
// Chimera database: its parameters, validation, statements and result shape.
// It performs no I/O itself; statements run through a Runner supplied by the
// dispatcher.
package catalog

import (
	"context"
	"time"
)

// Kind separates read operations from writes.
type Kind int

const (
	KindRead Kind = iota
	KindWrite
)

func (k Kind) String() string {
	if k == KindWrite {
		return "write"
	}
	return "read"
}

// Shape is the form of an operation's result.
type Shape int

const (
	// ShapeRows is a table of rows.
	ShapeRows Shape = iota
	// ShapeScalar is a single row of named aggregate values.
	ShapeScalar
	// ShapeAffected is a count of changed rows, plus any generated id.
	ShapeAffected
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeAffected:
		return "affected"
	}
	return "rows"
}

// Env carries values the dispatcher supplies to every run.
type Env struct {
	Now time.Time
}

// Today returns Now as a DATE literal.
func (e Env) Today() string {
	return e.Now.Format("2006-01-02")
}

// RunFunc executes an operation's statements with validated arguments.
type RunFunc func(ctx context.Context, r Runner, env Env, a Args) (*Outcome, error)

// Operation is one entry of the catalog.
type Operation struct {
	ID         string
	Title      string
	Kind       Kind
	Shape      Shape
	Params     []Param
	Statements []Statement
	// Check validates relations between parameters once each has parsed.
	Check func(Args) error
	Run   RunFunc
}

// Declares reports whether stmt is one of op's statements.
func (op *Operation) Declares(stmt Statement) bool {
	for _, s := range op.Statements {
		if s == stmt {
			return true
		}
	}
	return false
}

// Field is a named scalar value.
type Field struct {
	Name  string
	Value any
}

// Outcome is the successful result of an operation.
type Outcome struct {
	Operation string
	Shape     Shape

	Rows   *RowSet
	Scalar []Field

	Affected     int64
	LastInsertID int64
	// Cascaded counts rows changed beyond the targeted entity (MIA creature reassignment).
	Cascaded int64

	// Empty marks a read that matched nothing; Message then explains what was looked for.
	Empty   bool
	Message string
}

// Catalog is the ordered, immutable set of operations.
type Catalog struct {
	ops  []*Operation
	byID map[string]*Operation
}

// New builds a catalog from ops, in menu order.
func New(ops ...*Operation) *Catalog {
	c := &Catalog{byID: make(map[string]*Operation, len(ops))}
	for _, op := range ops {
		c.ops = append(c.ops, op)
		c.byID[op.ID] = op
	}
	return c
}

// Default returns the Chimera operation catalog: reads first, then writes.
func Default() *Catalog {
	return New(append(readOperations(), writeOperations()...)...)
}

// Lookup returns the operation with the given id.
func (c *Catalog) Lookup(id string) (*Operation, bool) {
	op, ok := c.byID[id]
	return op, ok
}

// Operations returns every operation in menu order.
func (c *Catalog) Operations() []*Operation {
	out := make([]*Operation, len(c.ops))
	copy(out, c.ops)
	return out
}
