// Package rule defines the rule document model shared by the store,
// resolver, and syncer.
//
// A rule document is a text file with a YAML frontmatter header followed
// by an opaque body. The header carries the metadata the resolver needs
// (description, scope globs, always-apply flag, category, version); the
// body passes through unchanged to the consumer.
//
// Identity:
// A document's identifier is its base filename, NFC-normalized so that
// checkouts from filesystems with different Unicode normalization (macOS
// NFD vs Linux NFC) agree on which file is which. Identifiers are unique
// within a store.
//
// Ordering:
// A numeric filename prefix ("100-layout.md") declares load priority.
// Lower priorities load first. Files without a prefix sort after all
// prefixed files. Ties are broken by identifier lexical order so that
// resolution order is deterministic.
package rule
