package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Status is the sync state machine position.
// Uninitialized -> Synced after the first successful sync; Unreachable is
// transient and returns to Synced on the next success. There is no
// terminal failure state; every error is recoverable by re-invocation.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusSynced        Status = "synced"
	StatusUnreachable   Status = "unreachable"
)

// SyncState is the single-row state of the manifest.
type SyncState struct {
	RemoteRef    string
	LastRevision string
	Status       Status
	UpdatedAt    string // RFC 3339; empty before the first sync
}

// Run is one sync invocation recorded in history.
type Run struct {
	ID         string
	Revision   string
	Added      int
	Updated    int
	Removed    int
	Unchanged  int
	StartedAt  time.Time
	FinishedAt time.Time
}

// State reads the current sync state.
func (d *DB) State(ctx context.Context) (SyncState, error) {
	var st SyncState
	err := d.db.QueryRowContext(ctx, `
		SELECT remote_ref, last_revision, status, updated_at
		FROM sync_state WHERE id = 1
	`).Scan(&st.RemoteRef, &st.LastRevision, (*string)(&st.Status), &st.UpdatedAt)
	if err != nil {
		return SyncState{}, fmt.Errorf("read sync state: %w", err)
	}
	return st, nil
}

// Runs returns the most recent sync runs, newest first.
func (d *DB) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, revision, added, updated, removed, unchanged, started_at, finished_at
		FROM sync_runs ORDER BY started_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("read sync runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Revision, &r.Added, &r.Updated, &r.Removed, &r.Unchanged, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SyncTx is the advisory lock plus transactional view of the manifest
// held for the duration of one sync. Exactly one of Finish, Abort, or
// Close must be called on every exit path.
type SyncTx struct {
	tx   *sql.Tx
	done bool
}

// BeginSync acquires the per-SyncState advisory lock.
// The transaction is immediate, so the database write lock is taken up
// front; a concurrent sync against the same manifest blocks here until
// the busy timeout expires.
func (d *DB) BeginSync(ctx context.Context) (*SyncTx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	return &SyncTx{tx: tx}, nil
}

// RemoteFiles reads the manifest of the last sync: identifier -> content
// hash for every remote-sourced file on disk.
func (t *SyncTx) RemoteFiles(ctx context.Context) (map[string]string, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT identifier, content_hash FROM remote_files`)
	if err != nil {
		return nil, fmt.Errorf("read remote files: %w", err)
	}
	defer rows.Close()

	files := make(map[string]string)
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, fmt.Errorf("scan remote file: %w", err)
		}
		files[id] = hash
	}
	return files, rows.Err()
}

// Finish records a successful sync and releases the lock: replaces the
// remote-files manifest, advances the state machine to synced, appends
// the run to history, and commits.
func (t *SyncTx) Finish(ctx context.Context, run Run, remoteRef string, files map[string]string) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM remote_files`); err != nil {
		return fmt.Errorf("clear remote files: %w", err)
	}
	for id, hash := range files {
		if _, err := t.tx.ExecContext(ctx, `
			INSERT INTO remote_files (identifier, content_hash, revision)
			VALUES (?, ?, ?)
		`, id, hash, run.Revision); err != nil {
			return fmt.Errorf("write remote file %s: %w", id, err)
		}
	}

	if _, err := t.tx.ExecContext(ctx, `
		UPDATE sync_state
		SET remote_ref = ?, last_revision = ?, status = ?, updated_at = ?
		WHERE id = 1
	`, remoteRef, run.Revision, string(StatusSynced), run.FinishedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("update sync state: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, `
		INSERT INTO sync_runs (id, revision, added, updated, removed, unchanged, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Revision,
		run.Added,
		run.Updated,
		run.Removed,
		run.Unchanged,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}

	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit sync: %w", err)
	}
	return nil
}

// Abort marks the state machine (typically unreachable), keeps the
// manifest untouched, and releases the lock. The status update is the
// only thing committed.
func (t *SyncTx) Abort(ctx context.Context, status Status) error {
	if _, err := t.tx.ExecContext(ctx, `
		UPDATE sync_state SET status = ?, updated_at = ? WHERE id = 1
	`, string(status), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		t.tx.Rollback()
		t.done = true
		return fmt.Errorf("update sync status: %w", err)
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit status: %w", err)
	}
	return nil
}

// Close releases the lock without recording anything.
// No-op after Finish or Abort, so it is safe to defer.
func (t *SyncTx) Close() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}
