// Package shared contains the error kinds used across the domain packages.
// This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds, checked with errors.Is().
var (
	// ErrNotFound means the thing asked for does not exist (e.g. no data file yet).
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat means user text did not match the expected command shape.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyValue means a required part of a command was blank.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrCorruptData means persisted data exists but cannot be decoded.
	ErrCorruptData = errors.New("corrupt data")

	// ErrIO means the storage medium failed (permissions, disk, network).
	ErrIO = errors.New("i/o failure")

	// ErrUnavailable means an optional capability is not configured or down.
	ErrUnavailable = errors.New("unavailable")
)

// DomainError carries the domain and operation that failed along with a kind.
type DomainError struct {
	Domain  string // e.g. "student", "reminder", "store"
	Op      string // operation that failed, e.g. "AddGrade", "Load"
	Kind    error  // base kind for errors.Is()
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error, or the kind when there is none.
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches on the kind as well as the wrapped error.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Command parse errors. Their Message is what the user sees.
var (
	ErrGradeFormat = NewDomainError("student", "AddGrade", ErrInvalidFormat,
		"❌ Format: 'add subject [SubjectName] grade [Grade]'\nExample: 'add subject Math grade 8.5'")

	ErrReminderFormat = NewDomainError("reminder", "Add", ErrInvalidFormat,
		"⏰ Format: 'set reminder [task] at [time]' or 'set reminder [task] in [time]'\n"+
			"Examples:\n- 'set reminder study Physics at 7:30pm'\n- 'set reminder review notes in 10 minutes'")

	ErrReminderIncomplete = NewDomainError("reminder", "Add", ErrEmptyValue,
		"⏰ Please specify both task and time!")

	ErrGoalFormat = NewDomainError("goal", "Add", ErrEmptyValue,
		"🎯 Format: 'set goal [your goal]'\nExample: 'set goal study 2 hours daily'")

	ErrNoGrades = NewDomainError("cgpa", "Compute", ErrInvalidFormat,
		"🧮 CGPA Calculator ready! Format: 'calculate cgpa with grades 8, 9, 7, 8'")
)

// UserMessage returns the user-facing message of a DomainError, or the
// plain error text for anything else.
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCorrupt checks if persisted data could not be decoded.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptData)
}

// IsValidation checks if the error is a user input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrEmptyValue)
}

// IsUnavailable checks if an optional capability could not serve the call.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
