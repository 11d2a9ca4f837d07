package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rulestack/rulestack/internal/rule"
)

// LoadMode controls how errors are handled while loading a directory.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadDir reads every rule file of a directory into the store with the
// given source. Non-rule files are skipped. Returns all errors in
// LoadModeCollectAll, or the first one in LoadModeFailFast.
//
// The directory listing is sorted by os.ReadDir, so load order (and with
// it last-add-wins in non-strict mode) is deterministic.
func (s *Store) LoadDir(dir string, source rule.Source, mode LoadMode) []error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []error{fmt.Errorf("read rules directory %s: %w", dir, err)}
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !rule.IsRuleFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			if mode == LoadModeFailFast {
				return errs
			}
			continue
		}

		doc, err := rule.Parse(entry.Name(), content, source)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return errs
			}
			continue
		}

		if err := s.Add(doc); err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return errs
			}
		}
	}
	return errs
}

// LoadProject populates the store from a project's rules directory and
// its overrides directory. The overrides directory is optional; a missing
// one simply contributes no local documents. Remote documents are loaded
// first so that override shadowing is exercised in a fixed order.
func (s *Store) LoadProject(rulesDir, overridesDir string, mode LoadMode) []error {
	var errs []error

	if _, err := os.Stat(rulesDir); err == nil {
		errs = append(errs, s.LoadDir(rulesDir, rule.SourceRemote, mode)...)
		if mode == LoadModeFailFast && len(errs) > 0 {
			return errs
		}
	}

	if overridesDir != "" {
		if _, err := os.Stat(overridesDir); err == nil {
			errs = append(errs, s.LoadDir(overridesDir, rule.SourceLocal, mode)...)
		}
	}
	return errs
}
