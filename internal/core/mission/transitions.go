// Package mission contains the pure business logic for mission operations.
// This is part of the Functional Core - no I/O, only pure functions.
package mission

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/chimera/internal/core/text"
)

// Status represents the possible states of a mission.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
	StatusAborted   Status = "Aborted"
)

// AssignmentCompromised marks a mission assignment whose member went missing.
const AssignmentCompromised = "Compromised"

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusActive, StatusCompleted, StatusFailed, StatusAborted}
}

// ParseStatus normalizes raw input ("active", "ABORTED") and checks it against the closed set.
func ParseStatus(raw string) (Status, error) {
	s := text.Capitalize(raw)
	switch st := Status(s); st {
	case StatusPending, StatusActive, StatusCompleted, StatusFailed, StatusAborted:
		return st, nil
	}

	names := make([]string, 0, 5)
	for _, st := range Statuses() {
		names = append(names, string(st))
	}
	return "", fmt.Errorf("%q is not a mission status (valid: %s)", strings.TrimSpace(raw), strings.Join(names, ", "))
}

// Terminal reports whether a mission in this status has ended.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusAborted:
		return true
	case StatusPending, StatusActive:
		return false
	}
	return false
}

// StatusTransitionResult contains the result of a status transition.
// This is a value object that captures both the new status and any
// side effects (like setting EndDate).
type StatusTransitionResult struct {
	NewStatus Status
	EndDate   *time.Time // Set when transitioning to a terminal status
}

// ApplyStatusTransition applies a status transition and returns the result.
// When the status becomes terminal, EndDate is set to now.
// The caller should pass the current time to enable testing.
func ApplyStatusTransition(newStatus Status, now time.Time) StatusTransitionResult {
	result := StatusTransitionResult{
		NewStatus: newStatus,
	}

	if newStatus.Terminal() {
		y, m, d := now.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		result.EndDate = &day
	}

	return result
}
