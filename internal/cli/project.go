package cli

import (
	"fmt"

	"github.com/rulestack/rulestack/internal/config"
	"github.com/rulestack/rulestack/internal/resolver"
	"github.com/rulestack/rulestack/internal/store"
	"github.com/rulestack/rulestack/internal/syncer"
)

// loadConfig reads the project configuration for the invocation.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// loadStore populates a store from the project's rule directories.
// In collect mode, load errors are returned alongside the (partially
// populated) store so commands can keep going; fail-fast returns the
// first error only.
func loadStore(cfg *config.Config, mode store.LoadMode) (*store.Store, []error) {
	s := store.New(store.Options{Strict: cfg.Store.Strict})
	errs := s.LoadProject(cfg.Rules.Dir, cfg.Rules.OverridesDir, mode)
	return s, errs
}

// newResolver builds the resolver configured by the project.
func newResolver(cfg *config.Config, s *store.Store) *resolver.Resolver {
	return resolver.New(s, resolver.Options{
		ConflictCategories: cfg.Store.ConflictCategories,
	})
}

// newSource builds the remote source from the project configuration.
func newSource(cfg *config.Config) (syncer.Source, error) {
	if cfg.Remote.Path == "" {
		return nil, fmt.Errorf("remote.path is not configured")
	}
	switch cfg.Remote.Type {
	case config.RemoteGit:
		return syncer.NewGitSource(cfg.Remote.Path, cfg.Remote.Ref, cfg.Remote.Subdir), nil
	default:
		return syncer.NewDirSource(cfg.Remote.Path), nil
	}
}
