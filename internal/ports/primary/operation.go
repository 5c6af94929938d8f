package primary

import (
	"context"

	"github.com/example/chimera/internal/core/catalog"
)

// OperationService defines the primary port for running catalog operations.
// The CLI shell talks to the database only through this port.
type OperationService interface {
	// Execute validates params and runs the operation in one unit of work.
	Execute(ctx context.Context, operationID string, params map[string]string) (*catalog.Outcome, error)

	// Operations lists the catalog in menu order.
	Operations() []OperationInfo
}

// OperationInfo describes one catalog entry at the port boundary.
type OperationInfo struct {
	Number int
	ID     string
	Title  string
	Kind   string
	Params []ParamInfo
}

// ParamInfo describes one operation parameter for prompting.
type ParamInfo struct {
	Name     string
	Prompt   string
	Type     string
	Optional bool
	Default  string
	// Applies reports whether the parameter is asked for, given the values collected so far.
	Applies func(collected map[string]string) bool
}
