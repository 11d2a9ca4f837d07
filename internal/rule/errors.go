package rule

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes rule-system errors.
type Kind string

const (
	// KindDuplicateIdentifier indicates an identifier collision in strict
	// mode without explicit replace intent.
	KindDuplicateIdentifier Kind = "DUPLICATE_IDENTIFIER"

	// KindRuleConflict indicates two matched documents declare the same
	// mutually-exclusive category for the same path.
	KindRuleConflict Kind = "RULE_CONFLICT"

	// KindSyncUnavailable indicates the remote source could not be reached.
	// This is the only transient kind; callers may re-invoke sync.
	KindSyncUnavailable Kind = "SYNC_UNAVAILABLE"

	// KindSyncConflict indicates a local override shadows a diverged remote
	// file. Surfaced as a warning, never a hard failure.
	KindSyncConflict Kind = "SYNC_CONFLICT"

	// KindMalformedDocument indicates a document header is missing,
	// unclosed, or not valid YAML.
	KindMalformedDocument Kind = "MALFORMED_DOCUMENT"
)

// Error is the typed error surfaced by every layer of the rule system.
// No kind is ever silently swallowed; the CLI maps kinds to exit codes.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// Identifier names the offending document, when one is known.
	Identifier string

	// Conflicting lists the other identifiers involved (conflict kinds).
	Conflicting []string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.Identifier != "" {
		fmt.Fprintf(&b, " (identifier=%s", e.Identifier)
		if len(e.Conflicting) > 0 {
			fmt.Fprintf(&b, ", conflicting=%s", strings.Join(e.Conflicting, ","))
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain.
// Returns the empty Kind if no *Error is present.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsConflict reports whether err is a rule conflict error.
func IsConflict(err error) bool {
	return IsKind(err, KindRuleConflict)
}

// IsUnavailable reports whether err is a transient sync-unavailable error.
func IsUnavailable(err error) bool {
	return IsKind(err, KindSyncUnavailable)
}

// NewDuplicateError creates an Error for a strict-mode identifier collision.
func NewDuplicateError(identifier string) *Error {
	return &Error{
		Kind:       KindDuplicateIdentifier,
		Message:    "identifier already present in store",
		Identifier: identifier,
	}
}

// NewConflictError creates an Error for a category conflict between two
// documents matching the same path. Identifiers are reported in lexical
// order so the message is deterministic.
func NewConflictError(category, idA, idB string) *Error {
	if idB < idA {
		idA, idB = idB, idA
	}
	return &Error{
		Kind:        KindRuleConflict,
		Message:     fmt.Sprintf("documents share exclusive category %q", category),
		Identifier:  idA,
		Conflicting: []string{idB},
	}
}

// NewUnavailableError creates an Error for an unreachable remote source.
func NewUnavailableError(remote string, err error) *Error {
	return &Error{
		Kind:    KindSyncUnavailable,
		Message: fmt.Sprintf("remote source unreachable: %s", remote),
		Err:     err,
	}
}

// NewSyncConflictError creates an Error for a local override shadowing a
// diverged remote document.
func NewSyncConflictError(identifier string) *Error {
	return &Error{
		Kind:       KindSyncConflict,
		Message:    "local override shadows diverged remote document",
		Identifier: identifier,
	}
}

// NewMalformedError creates an Error for an unparseable document header.
func NewMalformedError(identifier, reason string, err error) *Error {
	return &Error{
		Kind:       KindMalformedDocument,
		Message:    reason,
		Identifier: identifier,
		Err:        err,
	}
}
