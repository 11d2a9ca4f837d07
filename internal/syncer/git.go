package syncer

import (
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/rulestack/rulestack/internal/rule"
)

// GitSource fetches the rule tree from a git repository checkout at a
// pinned ref, without touching the working tree. This mirrors the
// subrepository distribution workflow: the rules repo is cloned once and
// each sync reads `ref:path` objects directly.
type GitSource struct {
	// RepoPath is the local clone of the rules repository.
	RepoPath string
	// ref is the git ref to read; defaults to HEAD.
	ref string
	// Subdir restricts the fetch to a directory within the repo.
	// Empty means the repository root.
	Subdir string
}

// NewGitSource creates a git-backed source.
func NewGitSource(repoPath, ref, subdir string) *GitSource {
	if ref == "" {
		ref = "HEAD"
	}
	return &GitSource{RepoPath: repoPath, ref: ref, Subdir: subdir}
}

// Ref implements Source.
func (s *GitSource) Ref() string {
	if s.Subdir != "" {
		return fmt.Sprintf("%s@%s:%s", s.RepoPath, s.ref, s.Subdir)
	}
	return fmt.Sprintf("%s@%s", s.RepoPath, s.ref)
}

// FetchTree implements Source. The revision is the resolved commit hash,
// so the manifest records exactly what was synced.
func (s *GitSource) FetchTree(ctx context.Context) (map[string][]byte, string, error) {
	revision, err := s.runGit(ctx, "rev-parse", s.ref)
	if err != nil {
		return nil, "", fmt.Errorf("resolve ref %s: %w", s.ref, err)
	}
	revision = strings.TrimSpace(revision)

	lsArgs := []string{"ls-tree", "-r", "--name-only", revision}
	if s.Subdir != "" {
		lsArgs = append(lsArgs, "--", s.Subdir)
	}
	listing, err := s.runGit(ctx, lsArgs...)
	if err != nil {
		return nil, "", fmt.Errorf("list tree at %s: %w", revision, err)
	}

	tree := make(map[string][]byte)
	for _, file := range strings.Split(strings.TrimSpace(listing), "\n") {
		if file == "" {
			continue
		}
		if s.Subdir != "" {
			rel := strings.TrimPrefix(file, strings.TrimSuffix(s.Subdir, "/")+"/")
			if rel == file {
				continue
			}
			file = rel
		}
		// Nested paths are not part of a flat rule directory.
		if strings.Contains(file, "/") || !rule.IsRuleFile(file) {
			continue
		}

		objectPath := file
		if s.Subdir != "" {
			objectPath = path.Join(s.Subdir, file)
		}
		content, err := s.runGit(ctx, "show", revision+":"+objectPath)
		if err != nil {
			return nil, "", fmt.Errorf("read %s at %s: %w", objectPath, revision, err)
		}
		tree[rule.NormalizeIdentifier(file)] = []byte(content)
	}

	return tree, revision, nil
}

// runGit executes a git command in the repository directory.
func (s *GitSource) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.RepoPath

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}
