package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrFormNotFound    = errors.New("form not found in the store. Run 'form new' first")
	ErrFormExists      = errors.New("form already exists in the store")
	ErrUnknownField    = errors.New("unknown form field")
	ErrValidation      = errors.New("configuration validation failed")
	ErrActionAborted   = errors.New("action aborted by user")
)

// NotFoundError is returned when a profile name is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile %q not found", e.Name)
}

// Is makes errors.Is(err, ErrProfileNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrProfileNotFound
}

// DiagnosticKind classifies a non-fatal anomaly found while applying a profile.
type DiagnosticKind string

const (
	DiagUnknownExtension    DiagnosticKind = "unknown_extension"
	DiagUnrecognizedKind    DiagnosticKind = "unrecognized_kind"
	DiagKindMismatch        DiagnosticKind = "kind_mismatch"
	DiagUnknownSubjectField DiagnosticKind = "unknown_subject_field"
)

// Diagnostic is a non-fatal issue recorded while applying a profile.
// The affected field is left untouched.
type Diagnostic struct {
	Kind      DiagnosticKind
	Profile   string
	Extension ExtensionName
	// ExtensionKind is the kind found in the profile, if any.
	ExtensionKind ExtensionKind
	Message       string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}
