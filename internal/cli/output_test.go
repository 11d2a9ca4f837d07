package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulestack/rulestack/internal/rule"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "boom", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestWrapKindError(t *testing.T) {
	unavailable := rule.NewUnavailableError("remote", errors.New("refused"))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapKindError("sync failed", unavailable)))

	conflict := rule.NewConflictError("styling", "a.md", "b.md")
	assert.Equal(t, ExitFailure, GetExitCode(WrapKindError("resolve failed", conflict)))
}

func TestFormatterSuccessJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"n": 3}, nil))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestFormatterSuccessTextRender(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("ignored", func(w io.Writer) {
		io.WriteString(w, "rendered\n")
	}))
	assert.Equal(t, "rendered\n", buf.String())
}

func TestFormatterErrorNamesBothIdentifiers(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error(rule.NewConflictError("styling", "100-a.rule", "100-b.rule")))

	out := buf.String()
	assert.Contains(t, out, "RULE_CONFLICT")
	assert.Contains(t, out, "100-a.rule")
	assert.Contains(t, out, "100-b.rule")
}

func TestFormatterErrorJSONKinds(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error(rule.NewMalformedError("broken.md", "missing frontmatter header", nil)))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MALFORMED_DOCUMENT", resp.Error.Kind)
	assert.Equal(t, []string{"broken.md"}, resp.Error.Identifiers)
}

func TestToKindErrorForeignError(t *testing.T) {
	ke := toKindError(errors.New("disk full"))
	assert.Equal(t, "ERROR", ke.Kind)
	assert.Equal(t, "disk full", ke.Message)
	assert.Empty(t, ke.Identifiers)
}
