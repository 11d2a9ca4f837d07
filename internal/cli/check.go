package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rulestack/rulestack/internal/rule"
	"github.com/rulestack/rulestack/internal/store"
)

// checkReport is the check command's output.
type checkReport struct {
	Documents int          `json:"documents"`
	Problems  []*KindError `json:"problems,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate all rule documents",
		Long: `Parse every rule document of the project and report problems:
malformed headers, invalid scope globs, and strict-mode identifier
collisions. All problems are collected; exit code 1 when any is found.

Example:
  rulestack check`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}
	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	s, errs := loadStore(cfg, store.LoadModeCollectAll)

	// Scope globs are skipped silently during resolution; check is where
	// they get reported.
	for doc := range s.List("") {
		if scopeErr := rule.ValidateScopes(doc); scopeErr != nil {
			errs = append(errs, scopeErr)
		}
	}

	report := checkReport{Documents: s.Len()}
	for _, e := range errs {
		report.Problems = append(report.Problems, toKindError(e))
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	renderErr := f.Success(report, func(w io.Writer) {
		fmt.Fprintf(w, "%d documents checked, %d problems\n", report.Documents, len(report.Problems))
		for _, p := range report.Problems {
			if len(p.Identifiers) > 0 {
				fmt.Fprintf(w, "  [%s] %s: %s\n", p.Kind, p.Identifiers[0], p.Message)
			} else {
				fmt.Fprintf(w, "  [%s] %s\n", p.Kind, p.Message)
			}
		}
	})
	if renderErr != nil {
		return renderErr
	}

	if len(report.Problems) > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d problems found", len(report.Problems)), errors.Join(errs...))
	}
	return nil
}
