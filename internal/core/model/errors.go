package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrSignUpFailed is the opaque failure surfaced to the caller when the
	// sign-up pipeline fails for any reason that is not field-scoped. The
	// underlying cause is logged server-side and never attached here.
	ErrSignUpFailed = errors.New("account was not able to be created")
)

// DuplicateKind discriminates which uniqueness constraint a storage-layer
// insert violated.
type DuplicateKind int

const (
	// DuplicateOther is a duplicate-key violation on a constraint the
	// adapter does not recognize.
	DuplicateOther DuplicateKind = iota

	// DuplicateEmail is a violation of the unique email constraint.
	DuplicateEmail

	// DuplicateNickname is a violation of the unique nickname constraint.
	DuplicateNickname
)

// DuplicateKeyError is returned by repository adapters when an insert is
// rejected by a uniqueness constraint. The constraint classification is the
// authoritative signal for duplicate detection: the advisory pre-check can
// always lose a race against a concurrent insert.
type DuplicateKeyError struct {
	// Kind is the classified constraint.
	Kind DuplicateKind

	// Constraint is the storage-layer constraint name, kept for server-side
	// logging only. It must never reach the end user.
	Constraint string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key violates unique constraint %q", e.Constraint)
}

// FieldError is a validation or conflict error scoped to a single input
// field. It is safe to surface to the end user.
type FieldError struct {
	// Field names the offending input field.
	Field string

	// Message is a human-readable message for the end user.
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
