package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rulestack/rulestack/internal/rule"
	"github.com/rulestack/rulestack/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Path string
}

// listEntry is the list command's output row: document metadata without
// the body.
type listEntry struct {
	Identifier  string      `json:"identifier"`
	Priority    int         `json:"priority"`
	Source      rule.Source `json:"source"`
	Description string      `json:"description,omitempty"`
	Scopes      []string    `json:"scopes,omitempty"`
	AlwaysApply bool        `json:"always_apply,omitempty"`
	Category    string      `json:"category,omitempty"`
	Version     string      `json:"version,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rule documents in the store",
		Long: `List the rule documents available to the project, in resolution order
(priority prefix ascending, identifier breaking ties). Local overrides
shadow remote documents of the same identifier.

Example:
  rulestack list
  rulestack list --path src/app.css`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "only list documents whose scope matches this path")
	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
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

	entries := make([]listEntry, 0, s.Len())
	for doc := range s.List(opts.Path) {
		entries = append(entries, listEntry{
			Identifier:  doc.Identifier,
			Priority:    doc.Priority,
			Source:      doc.Source,
			Description: doc.Description,
			Scopes:      doc.Scopes,
			AlwaysApply: doc.AlwaysApply,
			Category:    doc.Category,
			Version:     doc.Version,
		})
	}

	return f.Success(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No rule documents found.")
			return
		}
		for _, e := range entries {
			scope := "(no scopes)"
			if e.AlwaysApply {
				scope = "alwaysApply"
			} else if len(e.Scopes) > 0 {
				scope = fmt.Sprintf("%v", e.Scopes)
			}
			fmt.Fprintf(w, "%-30s prio=%-6s src=%-6s %s\n", e.Identifier, priorityLabel(e.Priority), e.Source, scope)
		}
	})
}

// priorityLabel renders the unprefixed sentinel as "-".
func priorityLabel(p int) string {
	if p == rule.UnprefixedPriority {
		return "-"
	}
	return fmt.Sprintf("%d", p)
}
