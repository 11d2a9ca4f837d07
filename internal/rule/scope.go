package rule

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchScope reports whether a document applies to the given file path.
//
// The match is determined by:
//  1. AlwaysApply: matches every path unconditionally
//  2. Any scope glob matching the slash-normalized path
//  3. For globs without a directory separator ("*.css"), the path's base
//     name is also tried, so "*.css" applies to "src/app.css"
//
// A document with no scopes and AlwaysApply false matches nothing.
// Invalid glob patterns are treated as non-matching rather than failing
// the whole resolution; `rulestack check` reports them.
func MatchScope(doc Document, filePath string) bool {
	_, ok := MatchingScope(doc, filePath)
	return ok
}

// MatchingScope reports whether a document applies to the path, and which
// scope matched: the matching glob pattern, or "alwaysApply" for documents
// that apply unconditionally. Feeds `resolve --explain`.
func MatchingScope(doc Document, filePath string) (string, bool) {
	if doc.AlwaysApply {
		return "alwaysApply", true
	}
	p := filepath.ToSlash(filePath)
	base := path.Base(p)

	for _, glob := range doc.Scopes {
		ok, err := doublestar.Match(glob, p)
		if err != nil {
			continue
		}
		if ok {
			return glob, true
		}
		if !strings.Contains(glob, "/") {
			if ok, err := doublestar.Match(glob, base); err == nil && ok {
				return glob, true
			}
		}
	}
	return "", false
}

// ValidateScopes checks every glob pattern of a document for syntax errors.
// Returns KindMalformedDocument naming the document on the first bad
// pattern. Used by `rulestack check`; resolution itself skips bad globs.
func ValidateScopes(doc Document) error {
	for _, glob := range doc.Scopes {
		if !doublestar.ValidatePattern(glob) {
			return NewMalformedError(doc.Identifier, "invalid scope glob "+glob, nil)
		}
	}
	return nil
}
