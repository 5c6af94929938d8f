// Package unitofwork models the lifecycle of a single dispatched operation.
// This is part of the Functional Core - no I/O, only pure functions.
package unitofwork

import "fmt"

// Phase is a step in an operation's lifecycle:
//
//	Idle -> Validating -> Rejected
//	                   -> Executing -> Committed
//	                                -> RolledBack
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseRejected
	PhaseExecuting
	PhaseCommitted
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseRejected:
		return "rejected"
	case PhaseExecuting:
		return "executing"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled_back"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseRejected || p == PhaseCommitted || p == PhaseRolledBack
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanTransition evaluates whether a unit of work may move from one phase to another.
func CanTransition(from, to Phase) GuardResult {
	allowed := false
	switch from {
	case PhaseIdle:
		allowed = to == PhaseValidating
	case PhaseValidating:
		allowed = to == PhaseRejected || to == PhaseExecuting
	case PhaseExecuting:
		allowed = to == PhaseCommitted || to == PhaseRolledBack
	}
	if !allowed {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot move unit of work from %s to %s", from, to),
		}
	}
	return GuardResult{Allowed: true}
}

// Tracker records the phases one operation has passed through.
// A Tracker is single-use: once terminal it rejects every transition.
type Tracker struct {
	history []Phase
}

// NewTracker returns a tracker in PhaseIdle.
func NewTracker() *Tracker {
	return &Tracker{history: []Phase{PhaseIdle}}
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	return t.history[len(t.history)-1]
}

// Advance moves to the next phase or returns why it cannot.
func (t *Tracker) Advance(to Phase) error {
	if err := CanTransition(t.Phase(), to).Error(); err != nil {
		return err
	}
	t.history = append(t.history, to)
	return nil
}

// History returns every phase visited, starting with PhaseIdle.
func (t *Tracker) History() []Phase {
	out := make([]Phase, len(t.history))
	copy(out, t.history)
	return out
}
