package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/chimera/internal/core/catalog"
	"github.com/example/chimera/internal/core/unitofwork"
	"github.com/example/chimera/internal/ctxutil"
	"github.com/example/chimera/internal/ports/primary"
	"github.com/example/chimera/internal/ports/secondary"
)

// Dispatcher implements the OperationService interface. Each Execute call is
// one unit of work: validate, run every statement in a single transaction,
// then commit or roll back. It keeps no state between calls.
type Dispatcher struct {
	catalog *catalog.Catalog
	store   secondary.Store
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock sets the clock used for StartDate and EndDate values.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// WithIDGenerator sets the generator for execution ids in logs.
func WithIDGenerator(newID func() string) DispatcherOption {
	return func(d *Dispatcher) { d.newID = newID }
}

// NewDispatcher creates a Dispatcher with injected dependencies.
func NewDispatcher(cat *catalog.Catalog, store secondary.Store, logger *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		catalog: cat,
		store:   store,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute validates params and runs the operation in one transaction.
func (d *Dispatcher) Execute(ctx context.Context, operationID string, params map[string]string) (*catalog.Outcome, error) {
	u := &unit{
		tracker: unitofwork.NewTracker(),
		log: d.logger.With(
			zap.String("operation", operationID),
			zap.String("execution_id", d.newID()),
		),
	}
	if operator := ctxutil.OperatorFromContext(ctx); operator != "" {
		u.log = u.log.With(zap.String("operator", operator))
	}

	// 1. Validate
	u.enter(unitofwork.PhaseValidating)
	op, ok := d.catalog.Lookup(operationID)
	if !ok {
		return nil, u.reject(&catalog.ValidationError{
			Param:  "operation",
			Reason: fmt.Sprintf("unknown operation %q", operationID),
		})
	}
	args, err := catalog.Validate(op, params)
	if err != nil {
		return nil, u.reject(err)
	}

	// 2. Execute. From here the transaction runs to commit or rollback.
	u.enter(unitofwork.PhaseExecuting)
	ctx = context.WithoutCancel(ctx)

	tx, err := d.store.Begin(ctx, secondary.TxOptions{ReadOnly: op.Kind == catalog.KindRead})
	if err != nil {
		return nil, u.fail(err)
	}

	out, err := op.Run(ctx, &txRunner{op: op, tx: tx}, catalog.Env{Now: d.now()}, args)
	if err != nil {
		var nf *catalog.NotFoundError
		if errors.As(err, &nf) && nf.Operation == "" {
			nf.Operation = op.ID
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			u.log.Error("rollback failed", zap.Error(rbErr))
			return nil, u.fail(&catalog.TransactionError{Err: errors.Join(err, rbErr)})
		}
		return nil, u.fail(err)
	}

	// 3. Commit
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return nil, u.fail(&catalog.TransactionError{Err: err})
	}
	u.enter(unitofwork.PhaseCommitted)

	out.Operation = op.ID
	u.log.Info("operation committed",
		zap.String("kind", op.Kind.String()),
		zap.Int("rows", out.Rows.Len()),
		zap.Int64("affected", out.Affected),
		zap.Int64("cascaded", out.Cascaded),
		zap.Bool("empty", out.Empty),
	)
	return out, nil
}

// Operations lists the catalog in menu order.
func (d *Dispatcher) Operations() []primary.OperationInfo {
	ops := d.catalog.Operations()
	infos := make([]primary.OperationInfo, len(ops))
	for i, op := range ops {
		params := make([]primary.ParamInfo, len(op.Params))
		for j, p := range op.Params {
			params[j] = primary.ParamInfo{
				Name:     p.Name,
				Prompt:   p.Prompt,
				Type:     p.Type.String(),
				Optional: p.Optional,
				Default:  p.Default,
				Applies:  p.Applies,
			}
		}
		infos[i] = primary.OperationInfo{
			Number: i + 1,
			ID:     op.ID,
			Title:  op.Title,
			Kind:   op.Kind.String(),
			Params: params,
		}
	}
	return infos
}

// unit tracks and logs the phases of one Execute call.
type unit struct {
	tracker *unitofwork.Tracker
	log     *zap.Logger
}

func (u *unit) enter(phase unitofwork.Phase) {
	if err := u.tracker.Advance(phase); err != nil {
		u.log.DPanic("illegal phase transition", zap.Error(err))
		return
	}
	u.log.Debug("phase", zap.String("phase", phase.String()))
}

func (u *unit) reject(err error) error {
	u.enter(unitofwork.PhaseRejected)
	u.log.Warn("operation rejected", zap.String("error_kind", catalog.ErrorKind(err)), zap.Error(err))
	return err
}

func (u *unit) fail(err error) error {
	u.enter(unitofwork.PhaseRolledBack)
	if catalog.Recoverable(err) {
		u.log.Warn("operation rolled back", zap.String("error_kind", catalog.ErrorKind(err)), zap.Error(err))
	} else {
		u.log.Error("operation rolled back", zap.String("error_kind", catalog.ErrorKind(err)), zap.Error(err))
	}
	return err
}

// txRunner runs an operation's statements inside its transaction. Only
// statements the operation declares may run.
type txRunner struct {
	op *catalog.Operation
	tx secondary.Tx
}

func (r *txRunner) Exec(ctx context.Context, stmt catalog.Statement, args ...any) (catalog.ExecResult, error) {
	if !r.op.Declares(stmt) {
		return catalog.ExecResult{}, fmt.Errorf("statement %s is not declared by %s", stmt.Name(), r.op.ID)
	}
	res, err := r.tx.Exec(ctx, stmt.SQL(), args...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", stmt.Name(), err)
	}
	return res, nil
}

func (r *txRunner) Query(ctx context.Context, stmt catalog.Statement, args ...any) (*catalog.RowSet, error) {
	if !r.op.Declares(stmt) {
		return nil, fmt.Errorf("statement %s is not declared by %s", stmt.Name(), r.op.ID)
	}
	rs, err := r.tx.Query(ctx, stmt.SQL(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stmt.Name(), err)
	}
	return rs, nil
}

// Ensure Dispatcher implements the interface
var _ primary.OperationService = (*Dispatcher)(nil)
