package rule

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictErrorOrdersIdentifiers(t *testing.T) {
	err := NewConflictError("styling", "200-b.rule", "100-a.rule")
	assert.Equal(t, "100-a.rule", err.Identifier)
	assert.Equal(t, []string{"200-b.rule"}, err.Conflicting)
	assert.Contains(t, err.Error(), "100-a.rule")
	assert.Contains(t, err.Error(), "200-b.rule")
	assert.Contains(t, err.Error(), "styling")
}

func TestKindOfWrappedError(t *testing.T) {
	base := NewUnavailableError("git@example.com:rules.git", errors.New("connection refused"))
	wrapped := fmt.Errorf("sync failed: %w", base)

	assert.Equal(t, KindSyncUnavailable, KindOf(wrapped))
	assert.True(t, IsUnavailable(wrapped))
	assert.False(t, IsConflict(wrapped))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(errors.New("plain"), KindRuleConflict))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("yaml: line 2: mapping values are not allowed")
	err := NewMalformedError("bad.md", "invalid YAML header", cause)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "bad.md")
	assert.Contains(t, err.Error(), "MALFORMED_DOCUMENT")
}

func TestDuplicateError(t *testing.T) {
	err := NewDuplicateError("100-a.rule")
	assert.True(t, IsKind(err, KindDuplicateIdentifier))
	assert.Equal(t, "100-a.rule", err.Identifier)
}
