package resolver

import (
	"github.com/rulestack/rulestack/internal/rule"
	"github.com/rulestack/rulestack/internal/store"
)

// Options configures resolution behavior.
type Options struct {
	// ConflictCategories enables mutual-exclusion checking: two matched
	// documents sharing the same non-empty category fail the resolve
	// with KindRuleConflict instead of both being returned.
	ConflictCategories bool
}

// Resolver produces the effective ordered rule list for a path.
type Resolver struct {
	store *store.Store
	opts  Options
}

// New creates a resolver over a store.
func New(st *store.Store, opts Options) *Resolver {
	return &Resolver{store: st, opts: opts}
}

// Resolved is one entry of the effective rule list: the only shape an
// external editor or assistant consumes.
type Resolved struct {
	Identifier string      `json:"identifier"`
	Priority   int         `json:"priority"`
	Source     rule.Source `json:"source"`
	Body       string      `json:"body"`
}

// Resolve computes the effective ordered rule list applicable to path.
//
// Order is (priority prefix asc, identifier asc) and is stable across
// invocations. Override precedence is already applied by the store: a
// local document shadows the remote document of the same identifier, so
// the shadowed copy never reaches the filter.
//
// Returns KindRuleConflict naming both identifiers when conflict
// categories are enabled and two matched documents share a category.
func (r *Resolver) Resolve(path string) ([]Resolved, error) {
	var (
		matched    []rule.Document
		byCategory = make(map[string]string) // category -> first identifier
	)

	for doc := range r.store.List(path) {
		if r.opts.ConflictCategories && doc.Category != "" {
			if first, ok := byCategory[doc.Category]; ok {
				return nil, rule.NewConflictError(doc.Category, first, doc.Identifier)
			}
			byCategory[doc.Category] = doc.Identifier
		}
		matched = append(matched, doc)
	}

	out := make([]Resolved, len(matched))
	for i, doc := range matched {
		out[i] = Resolved{
			Identifier: doc.Identifier,
			Priority:   doc.Priority,
			Source:     doc.Source,
			Body:       doc.Body,
		}
	}
	return out, nil
}

// Explanation describes why one document did or did not apply to a path.
type Explanation struct {
	Identifier string      `json:"identifier"`
	Priority   int         `json:"priority"`
	Source     rule.Source `json:"source"`
	Matched    bool        `json:"matched"`
	// Reason is the matching glob, "alwaysApply", or "no scope matched".
	Reason string `json:"reason"`
}

// Explain reports, for every document in the store, whether it applies to
// path and which scope decided that. Documents appear in resolution order.
// Explain never fails: conflicts show up as two matched entries.
func (r *Resolver) Explain(path string) []Explanation {
	var out []Explanation
	for doc := range r.store.List("") {
		scope, ok := rule.MatchingScope(doc, path)
		reason := scope
		if !ok {
			reason = "no scope matched"
		}
		out = append(out, Explanation{
			Identifier: doc.Identifier,
			Priority:   doc.Priority,
			Source:     doc.Source,
			Matched:    ok,
			Reason:     reason,
		})
	}
	return out
}
