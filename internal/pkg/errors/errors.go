package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when credentials or tokens are rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation covers missing references, unresolved index references and malformed input.
	ErrValidation = errors.New("validation error")
	// ErrConflict covers duplicate active work and concurrent-write collisions.
	ErrConflict = errors.New("conflict")
	// ErrIllegalTransition is returned when an action is not enabled from the current state.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrForbidden is returned when the actor lacks the role required for an action.
	ErrForbidden = errors.New("forbidden")
)

// NotFound wraps ErrNotFound with the kind and id that were missing.
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// Forbidden wraps ErrForbidden with a reason.
func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrForbidden)
}

// ValidationError lists every problem found in a request. It matches ErrValidation.
type ValidationError struct {
	Issues []string
}

func NewValidation(issues ...string) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

func (e *ValidationError) Empty() bool { return e == nil || len(e.Issues) == 0 }

// OrNil returns nil when no issues were recorded.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError carries the assignment ids that block an operation. It matches ErrConflict.
type ConflictError struct {
	Reason        string
	AssignmentIDs []uint
	Err           error
}

func NewConflict(reason string, assignmentIDs ...uint) *ConflictError {
	ids := append([]uint(nil), assignmentIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &ConflictError{Reason: reason, AssignmentIDs: ids}
}

func (e *ConflictError) Error() string {
	msg := ErrConflict.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.AssignmentIDs) > 0 {
		parts := make([]string, 0, len(e.AssignmentIDs))
		for _, id := range e.AssignmentIDs {
			parts = append(parts, fmt.Sprintf("%d", id))
		}
		msg += " (assignments " + strings.Join(parts, ",") + ")"
	}
	return msg
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) Unwrap() error { return e.Err }

// TransitionError reports an action that is not enabled from a state. It matches ErrIllegalTransition.
type TransitionError struct {
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %q is not enabled from %q", ErrIllegalTransition.Error(), e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool { return target == ErrIllegalTransition }

// BlockingIDs extracts the blocking assignment ids from a ConflictError, if any.
func BlockingIDs(err error) []uint {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.AssignmentIDs
	}
	return nil
}
