package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rulestack/rulestack/internal/store"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Explain    bool
	BodiesOnly bool
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Compute the effective rule list for a file path",
		Long: `Compute the effective ordered rule list applicable to a file path.

Documents are filtered by scope glob, ordered by priority prefix with
identifier lexical order breaking ties, and local overrides shadow remote
documents. When conflict categories are enabled, two matched documents
sharing a category fail the resolve naming both identifiers.

Example:
  rulestack resolve src/app.css
  rulestack resolve src/app.css --explain
  rulestack resolve src/app.css --bodies`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "show why each document did or did not apply")
	cmd.Flags().BoolVar(&opts.BodiesOnly, "bodies", false, "print matched rule bodies only (for piping to a consumer)")
	return cmd
}

func runResolve(opts *ResolveOptions, path string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	s, errs := loadStore(cfg, store.LoadModeCollectAll)
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if len(errs) > 0 {
		f.Error(errs[0])
		return WrapKindError("failed to load rule documents", errs[0])
	}

	r := newResolver(cfg, s)

	if opts.Explain {
		explained := r.Explain(path)
		return f.Success(explained, func(w io.Writer) {
			for _, e := range explained {
				mark := " "
				if e.Matched {
					mark = "*"
				}
				fmt.Fprintf(w, "%s %-30s prio=%-6s %s\n", mark, e.Identifier, priorityLabel(e.Priority), e.Reason)
			}
		})
	}

	resolved, err := r.Resolve(path)
	if err != nil {
		f.Error(err)
		return WrapKindError("resolve failed", err)
	}

	if opts.BodiesOnly {
		return f.Success(resolved, func(w io.Writer) {
			for _, entry := range resolved {
				fmt.Fprintln(w, entry.Body)
			}
		})
	}

	return f.Success(resolved, func(w io.Writer) {
		if len(resolved) == 0 {
			fmt.Fprintf(w, "No rules apply to %s\n", path)
			return
		}
		for _, entry := range resolved {
			fmt.Fprintf(w, "%-30s prio=%-6s src=%s\n", entry.Identifier, priorityLabel(entry.Priority), entry.Source)
		}
	})
}
