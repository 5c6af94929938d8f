package catalog

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed parameter. Nothing has
// touched storage when it is returned.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// NotFoundError reports that a write matched no rows, or a lookup found no subject.
// It is informational; the unit of work was rolled back.
type NotFoundError struct {
	Operation string
	Subject   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found", e.Subject)
}

// ConstraintKind names the storage constraint that rejected a write.
type ConstraintKind string

const (
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintCheck      ConstraintKind = "check"
)

// ConstraintViolation reports a foreign-key, uniqueness, not-null or check
// rejection from storage (e.g. deleting a Base that Personnel still reference).
type ConstraintViolation struct {
	Constraint ConstraintKind
	Detail     string
	Err        error
}

func (e *ConstraintViolation) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s constraint violated", e.Constraint)
	}
	return fmt.Sprintf("%s constraint violated: %s", e.Constraint, e.Detail)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// ConnectivityError reports that storage could not be reached. It is fatal for
// the current operation only.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("database unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// TransactionError reports that commit failed after every statement succeeded.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// Recoverable reports whether the caller can retry with corrected input.
func Recoverable(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
		cv *ConstraintViolation
	)
	return errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &cv)
}

// ErrorKind returns a short label for err, used in logs.
func ErrorKind(err error) string {
	var (
		ve *ValidationError
		nf *NotFoundError
		cv *ConstraintViolation
		ce *ConnectivityError
		te *TransactionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &cv):
		return "constraint"
	case errors.As(err, &te):
		return "transaction"
	case errors.As(err, &ce):
		return "connectivity"
	}
	return "storage"
}
