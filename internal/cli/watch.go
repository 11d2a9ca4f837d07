package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rulestack/rulestack/internal/config"
	"github.com/rulestack/rulestack/internal/store"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-resolve a path whenever rule documents change",
		Long: `Watch the project's rule directories and print the effective rule list
for the given path whenever a rule document changes. Useful while editing
rules to see resolution change live.

Press Ctrl-C to stop.

Example:
  rulestack watch src/app.css`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 200*time.Millisecond, "wait this long for further changes before re-resolving")
	return cmd
}

func runWatch(opts *WatchOptions, path string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create watcher", err)
	}
	defer watcher.Close()

	for _, dir := range []string{cfg.Rules.Dir, cfg.Rules.OverridesDir} {
		if dir == "" {
			continue
		}
		if _, statErr := os.Stat(dir); statErr != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to watch %s", dir), err)
		}
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping watch", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// Initial resolution before any change arrives.
	resolveOnce(opts, cfg, path, cmd)

	// Debounce: collect a burst of events, resolve once when it settles.
	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			slog.Debug("rule change", "op", event.Op.String(), "file", event.Name)
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(opts.Debounce)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", watchErr)
		case <-timerC:
			timer = nil
			timerC = nil
			resolveOnce(opts, cfg, path, cmd)
		}
	}
}

// resolveOnce reloads the store from disk and prints the resolution.
// Failures are printed; the watch loop keeps running.
func resolveOnce(opts *WatchOptions, cfg *config.Config, path string, cmd *cobra.Command) {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	s := store.New(store.Options{Strict: cfg.Store.Strict})
	if errs := s.LoadProject(cfg.Rules.Dir, cfg.Rules.OverridesDir, store.LoadModeCollectAll); len(errs) > 0 {
		f.Error(errs[0])
		return
	}

	resolved, err := newResolver(cfg, s).Resolve(path)
	if err != nil {
		f.Error(err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "-- %s: %d rules at %s\n", path, len(resolved), time.Now().Format(time.TimeOnly))
	for _, entry := range resolved {
		fmt.Fprintf(cmd.OutOrStdout(), "   %-30s prio=%s\n", entry.Identifier, priorityLabel(entry.Priority))
	}
}
