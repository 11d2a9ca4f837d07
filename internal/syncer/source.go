package syncer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rulestack/rulestack/internal/rule"
)

// Source is the remote source of truth: anything that can list rule
// files with their content at a revision. Implementable over any
// version-control backend or a plain file copy.
type Source interface {
	// FetchTree returns identifier -> content at the source's current
	// revision, plus an opaque revision string. Errors are treated as
	// the remote being unreachable.
	FetchTree(ctx context.Context) (map[string][]byte, string, error)

	// Ref describes the source for error messages and the manifest.
	Ref() string
}

// DirSource fetches from a plain filesystem directory.
// The revision is a digest over the tree contents, so an unchanged
// directory reports the same revision across fetches.
type DirSource struct {
	Path string
}

// NewDirSource creates a directory-backed source.
func NewDirSource(path string) *DirSource {
	return &DirSource{Path: path}
}

// Ref implements Source.
func (s *DirSource) Ref() string {
	return s.Path
}

// FetchTree implements Source. Only rule files are fetched; anything
// else in the directory is not part of the distributed rule set.
func (s *DirSource) FetchTree(ctx context.Context) (map[string][]byte, string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("read source directory %s: %w", s.Path, err)
	}

	tree := make(map[string][]byte)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		if entry.IsDir() || !rule.IsRuleFile(entry.Name()) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.Path, entry.Name()))
		if err != nil {
			return nil, "", fmt.Errorf("read source file %s: %w", entry.Name(), err)
		}
		tree[rule.NormalizeIdentifier(entry.Name())] = content
	}

	return tree, treeRevision(tree), nil
}

// treeRevision digests the tree so equal contents yield equal revisions.
func treeRevision(tree map[string][]byte) string {
	ids := make([]string, 0, len(tree))
	for id := range tree {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		fmt.Fprintf(h, "%s\x00%s\x00", id, rule.HashContent(tree[id]))
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
