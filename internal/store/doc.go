// Package store holds the set of rule documents available to a project.
//
// The store is an in-memory index keyed by identifier, populated from the
// project's rules directory (remote-synced documents) and overrides
// directory (local documents). It exclusively owns its documents: callers
// receive copies through iteration, never shared references.
//
// Precedence: a local-override document shadows a remote document of the
// same identifier. List never yields the shadowed remote copy.
//
// Ordering: List yields documents in (priority asc, identifier asc) order.
// The sequence is lazy, finite, and restartable; each range re-reads the
// current store contents.
package store
