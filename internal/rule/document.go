package rule

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Source identifies where a document came from.
type Source string

const (
	// SourceLocal marks a directory-local override document.
	// Local documents always shadow remote documents of the same identifier.
	SourceLocal Source = "local"

	// SourceRemote marks a document written by sync from the remote
	// source of truth.
	SourceRemote Source = "remote"
)

// UnprefixedPriority is the sentinel priority for documents whose filename
// carries no numeric prefix. It sorts after every explicit prefix.
const UnprefixedPriority = 1<<31 - 1

// Document is a single rule document: parsed header metadata plus an
// opaque body. The store owns its documents; values are copied, never
// shared mutably.
type Document struct {
	// Identifier is the NFC-normalized base filename. Unique per store.
	Identifier string

	// Priority is the numeric filename prefix; lower loads first.
	// UnprefixedPriority when the filename has no prefix.
	Priority int

	// Description is the header's free-form description field.
	Description string

	// Scopes holds the doublestar glob patterns this document applies to.
	Scopes []string

	// AlwaysApply makes the document match every path regardless of Scopes.
	AlwaysApply bool

	// Category tags the document for mutual-exclusion conflict detection.
	// Empty means the document conflicts with nothing.
	Category string

	// Version is an optional semantic version string from the header.
	Version string

	// Body is the opaque rule text after the header. Passed through
	// unchanged to the consumer.
	Body string

	// Source records whether the document is a local override or synced.
	Source Source

	// ContentHash is the hex SHA-256 of the raw file content.
	ContentHash string
}

// NormalizeIdentifier canonicalizes a filename for use as an identifier.
// NFC normalization makes macOS (NFD) and Linux checkouts agree.
func NormalizeIdentifier(name string) string {
	return norm.NFC.String(name)
}

// ParsePriority extracts the numeric prefix from a filename.
// "100-layout.md" yields 100; "layout.md" yields UnprefixedPriority.
// A prefix must be followed by a separator ("-" or "_") to count:
// "2024report.md" has no prefix.
func ParsePriority(name string) int {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(name) {
		return UnprefixedPriority
	}
	if name[i] != '-' && name[i] != '_' {
		return UnprefixedPriority
	}
	p, err := strconv.Atoi(name[:i])
	if err != nil {
		// Digits longer than an int; treat as unprefixed.
		return UnprefixedPriority
	}
	return p
}

// HashContent returns the hex SHA-256 of raw file content.
// Used by the syncer to diff local files against the fetched tree.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Less orders documents by (priority asc, identifier asc).
// This is the resolution order guaranteed to consumers.
func Less(a, b Document) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Identifier < b.Identifier
}

// IsRuleFile reports whether a filename looks like a rule document.
// Rule documents are markdown files (.md or .mdc); everything else in a
// rules directory is ignored.
func IsRuleFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".mdc")
}
