package store

import (
	"iter"
	"sort"

	"github.com/rulestack/rulestack/internal/rule"
)

// Options configures store behavior.
type Options struct {
	// Strict makes Add fail with KindDuplicateIdentifier on a same-source
	// identifier collision instead of replacing. Cross-source collisions
	// are never an error: a local override shadowing a remote document is
	// the intended precedence mechanism.
	Strict bool
}

// Store is the in-memory rule document index.
// Not safe for concurrent mutation; the CLI and syncer use one store per
// invocation.
type Store struct {
	opts Options
	docs map[string]rule.Document
}

// New creates an empty store.
func New(opts Options) *Store {
	return &Store{
		opts: opts,
		docs: make(map[string]rule.Document),
	}
}

// Add inserts a document, or replaces an existing one by identifier.
//
// Collision behavior:
//   - strict mode, same source: KindDuplicateIdentifier
//   - local document over remote: replaces (override precedence)
//   - remote document over local: kept out; the override stays visible
//   - same source, non-strict: last add wins
func (s *Store) Add(doc rule.Document) error {
	existing, ok := s.docs[doc.Identifier]
	if !ok {
		s.docs[doc.Identifier] = doc
		return nil
	}

	if existing.Source != doc.Source {
		// Local always shadows remote, in either add order.
		if doc.Source == rule.SourceLocal {
			s.docs[doc.Identifier] = doc
		}
		return nil
	}

	if s.opts.Strict {
		return rule.NewDuplicateError(doc.Identifier)
	}
	s.docs[doc.Identifier] = doc
	return nil
}

// Replace inserts or replaces unconditionally. This is the explicit
// replace intent that bypasses strict-mode collision checks.
func (s *Store) Replace(doc rule.Document) {
	s.docs[doc.Identifier] = doc
}

// Remove deletes a document by identifier.
// Idempotent: removing an absent identifier is not an error.
func (s *Store) Remove(identifier string) {
	delete(s.docs, rule.NormalizeIdentifier(identifier))
}

// Get returns the document for an identifier, if present.
func (s *Store) Get(identifier string) (rule.Document, bool) {
	doc, ok := s.docs[rule.NormalizeIdentifier(identifier)]
	return doc, ok
}

// Len returns the number of documents in the store.
func (s *Store) Len() int {
	return len(s.docs)
}

// List returns a lazy, restartable sequence of documents whose scope
// matches the given path, in (priority asc, identifier asc) order.
// An empty scopePath disables scope filtering. Each range over the
// sequence re-reads the current store contents.
func (s *Store) List(scopePath string) iter.Seq[rule.Document] {
	return func(yield func(rule.Document) bool) {
		for _, doc := range s.sorted() {
			if scopePath != "" && !rule.MatchScope(doc, scopePath) {
				continue
			}
			if !yield(doc) {
				return
			}
		}
	}
}

// sorted snapshots the store contents in resolution order.
func (s *Store) sorted() []rule.Document {
	out := make([]rule.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return rule.Less(out[i], out[j])
	})
	return out
}
