package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rulestack/rulestack/internal/state"
	"github.com/rulestack/rulestack/internal/syncer"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull rule documents from the remote source",
		Long: `Reconcile the local rules directory against the remote source of truth.

Pull-only: remote-sourced files are added, updated, or removed to match
the remote tree. Local override files are never touched; an override that
shadows a diverged remote document is reported as a warning.

An unreachable remote is reported, not retried. Run sync again to recover.

Example:
  rulestack sync
  rulestack sync --config ./rulestack.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(rootOpts, cmd)
		},
	}
	return cmd
}

func runSync(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	source, err := newSource(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid remote configuration", err)
	}

	db, err := state.Open(cfg.Rules.ManifestPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open sync manifest", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing manifest", "error", closeErr)
		}
	}()

	coord := &syncer.Coordinator{
		RulesDir:     cfg.Rules.Dir,
		OverridesDir: cfg.Rules.OverridesDir,
		Source:       source,
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	summary, err := coord.Sync(cmd.Context(), db)
	if err != nil {
		f.Error(err)
		return WrapKindError("sync failed", err)
	}

	if opts.Verbose {
		logRunHistory(cmd, db)
	}

	return f.Success(summary, func(w io.Writer) {
		fmt.Fprintf(w, "Synced %s at %s\n", source.Ref(), summary.Revision)
		fmt.Fprintf(w, "  added: %d  updated: %d  removed: %d  unchanged: %d\n",
			len(summary.Added), len(summary.Updated), len(summary.Removed), len(summary.Unchanged))
		for _, id := range summary.Added {
			fmt.Fprintf(w, "  A %s\n", id)
		}
		for _, id := range summary.Updated {
			fmt.Fprintf(w, "  U %s\n", id)
		}
		for _, id := range summary.Removed {
			fmt.Fprintf(w, "  D %s\n", id)
		}
		for _, warn := range summary.Warnings {
			fmt.Fprintf(w, "  warning [%s]: %s (%s)\n", warn.Kind, warn.Message, warn.Identifier)
		}
	})
}

// logRunHistory prints recent sync runs for --verbose.
func logRunHistory(cmd *cobra.Command, db *state.DB) {
	runs, err := db.Runs(cmd.Context(), 5)
	if err != nil {
		slog.Debug("reading run history failed", "error", err)
		return
	}
	for _, r := range runs {
		slog.Debug("sync run",
			"id", r.ID,
			"revision", r.Revision,
			"added", r.Added,
			"updated", r.Updated,
			"removed", r.Removed,
			"unchanged", r.Unchanged,
		)
	}
}
