// Package state persists a project's sync state in a SQLite manifest.
//
// The manifest records:
//   - Sync state: remote reference, last synced revision, and status
//     (uninitialized -> synced <-> unreachable; no terminal failure state)
//   - Remote files: identifier and content hash of every file the last
//     sync wrote, used to diff against the fetched tree and to tell
//     remote-sourced files apart from local overrides on disk
//   - Sync runs: a history row per sync invocation
//
// The manifest also serves as the per-SyncState advisory lock: a sync
// holds an immediate transaction for its whole critical section, so two
// syncs against the same local directory serialize on the database lock.
package state
