package syncer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rulestack/rulestack/internal/rule"
	"github.com/rulestack/rulestack/internal/state"
)

// Coordinator reconciles one local rule directory against one source.
type Coordinator struct {
	// RulesDir receives remote-sourced files.
	RulesDir string
	// OverridesDir holds local overrides; read-only for the syncer.
	OverridesDir string
	// Source is the remote source of truth.
	Source Source
	// Now stamps sync run times; defaults to time.Now.
	Now func() time.Time
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Summary reports what one sync did. Identifier lists are sorted.
type Summary struct {
	RunID     string   `json:"run_id"`
	Revision  string   `json:"revision"`
	Added     []string `json:"added"`
	Updated   []string `json:"updated"`
	Removed   []string `json:"removed"`
	Unchanged []string `json:"unchanged"`
	// Warnings carries sync-conflict reports: local overrides shadowing
	// diverged remote documents. Never fatal.
	Warnings []*rule.Error `json:"warnings,omitempty"`
}

// Sync runs one pull-only reconciliation.
//
// The manifest's advisory lock is held for the whole critical section and
// released on every exit path. An unreachable source marks the manifest
// unreachable and returns KindSyncUnavailable; the caller re-invokes to
// recover. A second sync with no remote change reports everything
// unchanged.
func (c *Coordinator) Sync(ctx context.Context, db *state.DB) (*Summary, error) {
	tx, err := db.BeginSync(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Close()

	started := c.now()

	tree, revision, err := c.Source.FetchTree(ctx)
	if err != nil {
		if abortErr := tx.Abort(ctx, state.StatusUnreachable); abortErr != nil {
			slog.Error("marking manifest unreachable failed", "error", abortErr)
		}
		return nil, rule.NewUnavailableError(c.Source.Ref(), err)
	}

	previous, err := tx.RemoteFiles(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.RulesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create rules directory: %w", err)
	}

	summary := &Summary{
		RunID:    uuid.Must(uuid.NewV7()).String(),
		Revision: revision,
	}
	manifest := make(map[string]string, len(tree))

	for id, content := range tree {
		manifest[id] = rule.HashContent(content)

		if warn := c.checkOverride(id, content); warn != nil {
			summary.Warnings = append(summary.Warnings, warn)
		}

		target := filepath.Join(c.RulesDir, id)
		existing, readErr := os.ReadFile(target)
		switch {
		case os.IsNotExist(readErr):
			summary.Added = append(summary.Added, id)
		case readErr != nil:
			return nil, fmt.Errorf("read %s: %w", target, readErr)
		case bytes.Equal(existing, content):
			summary.Unchanged = append(summary.Unchanged, id)
			continue
		default:
			summary.Updated = append(summary.Updated, id)
		}

		if err := os.WriteFile(target, content, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", target, err)
		}
	}

	// Remote-sourced files that vanished upstream are removed. Files in
	// the rules directory that the manifest never recorded are not ours
	// to delete.
	for id := range previous {
		if _, stillRemote := tree[id]; stillRemote {
			continue
		}
		target := filepath.Join(c.RulesDir, id)
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove %s: %w", target, err)
		}
		summary.Removed = append(summary.Removed, id)
	}

	sort.Strings(summary.Added)
	sort.Strings(summary.Updated)
	sort.Strings(summary.Removed)
	sort.Strings(summary.Unchanged)
	sort.Slice(summary.Warnings, func(i, j int) bool {
		return summary.Warnings[i].Identifier < summary.Warnings[j].Identifier
	})

	run := state.Run{
		ID:         summary.RunID,
		Revision:   revision,
		Added:      len(summary.Added),
		Updated:    len(summary.Updated),
		Removed:    len(summary.Removed),
		Unchanged:  len(summary.Unchanged),
		StartedAt:  started,
		FinishedAt: c.now(),
	}
	if err := tx.Finish(ctx, run, c.Source.Ref(), manifest); err != nil {
		return nil, err
	}

	slog.Info("sync complete",
		"run_id", summary.RunID,
		"revision", revision,
		"added", len(summary.Added),
		"updated", len(summary.Updated),
		"removed", len(summary.Removed),
		"unchanged", len(summary.Unchanged),
		"warnings", len(summary.Warnings),
	)
	return summary, nil
}

// checkOverride reports a sync conflict when a local override shares an
// identifier with a remote file and their content diverges. The override
// keeps winning at resolve time; the warning makes the shadowing visible.
func (c *Coordinator) checkOverride(id string, remoteContent []byte) *rule.Error {
	if c.OverridesDir == "" {
		return nil
	}
	local, err := os.ReadFile(filepath.Join(c.OverridesDir, id))
	if err != nil {
		return nil
	}
	if bytes.Equal(local, remoteContent) {
		return nil
	}
	return rule.NewSyncConflictError(id)
}
