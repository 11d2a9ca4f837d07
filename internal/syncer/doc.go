// Package syncer reconciles a project's local rule directory against a
// remote source of truth. Pull-only: nothing is ever pushed.
//
// A sync fetches the remote tree at its current revision, diffs it
// against the manifest of the previous sync, and replaces remote-sourced
// files on disk. Local-override files are never written or deleted; an
// override whose content diverges from its remote counterpart is reported
// as a warning, since overrides are intentional but silently shadowing
// remote updates is worth knowing about.
//
// Failures are reported, not retried: an unreachable remote marks the
// manifest unreachable and returns a transient error; re-invoking sync is
// the recovery path. Concurrent syncs against the same manifest serialize
// on the manifest's advisory lock.
package syncer
