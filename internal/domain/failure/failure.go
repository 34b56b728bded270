// Package failure defines the typed failure kinds surfaced by core operations.
// Handlers and callers branch on the kind, never on collaborator error text.
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies a category of operation failure.
type Kind string

const (
	// Precondition failures - fatal to the calling operation, no retry.
	NotAuthenticated       Kind = "not_authenticated"
	LocationRequired       Kind = "location_required"
	NoContacts             Kind = "no_contacts"
	EncounterAlreadyActive Kind = "encounter_already_active"
	InvalidContact         Kind = "invalid_contact"

	// Collaborator failures.
	StorageError      Kind = "storage_error"
	ChannelSendFailed Kind = "channel_send_failed"

	// Location acquisition failures.
	PermissionDenied    Kind = "permission_denied"
	PositionUnavailable Kind = "position_unavailable"
	Timeout             Kind = "timeout"
	Unsupported         Kind = "unsupported"
)

// Error carries a failure kind alongside the failing operation and cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a failure with no underlying cause.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// Wrap attaches a failure kind to an underlying collaborator error.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the failure kind from an error chain. Errors that carry
// no kind report StorageError's generic sibling: an empty Kind.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries the given failure kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
