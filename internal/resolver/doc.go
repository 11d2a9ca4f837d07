// Package resolver computes the effective ordered rule list for a path.
//
// Given a candidate file path, the resolver filters the store to documents
// whose scope matches, orders them by priority prefix ascending with
// identifier lexical order breaking ties, and applies override precedence
// (local documents shadow remote documents of the same identifier).
//
// Conflict policy:
// "Last loaded rule wins" is a silent footgun. When conflict categories
// are enabled, two matched documents sharing a non-empty category fail
// the resolution with an explicit error naming both identifiers instead
// of silently picking one.
package resolver
