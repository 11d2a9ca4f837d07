package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommandCleanProject(t *testing.T) {
	p := newTestProject(t)
	p.addRule(t, p.RulesDir, "100-css.md", "*.css", "", "css\n")
	p.addRule(t, p.OverridesDir, "200-mine.md", "**/*.js", "", "mine\n")

	out, err := execute(t, p, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "2 documents checked, 0 problems")
}

func TestCheckCommandMalformedDocument(t *testing.T) {
	p := newTestProject(t)
	p.addRule(t, p.RulesDir, "100-css.md", "*.css", "", "css\n")
	writeRaw(t, p, "900-broken.md", "no frontmatter here\n")

	out, err := execute(t, p, "check")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "MALFORMED_DOCUMENT")
	assert.Contains(t, out, "900-broken.md")
}

func TestCheckCommandInvalidScopeGlob(t *testing.T) {
	p := newTestProject(t)
	p.addRule(t, p.RulesDir, "100-bad.md", "src/[", "", "bad\n")

	out, err := execute(t, p, "check")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "MALFORMED_DOCUMENT")
}

func TestCheckCommandJSONReport(t *testing.T) {
	p := newTestProject(t)
	p.addRule(t, p.RulesDir, "100-css.md", "*.css", "", "css\n")
	writeRaw(t, p, "900-broken.md", "no frontmatter here\n")

	out, err := execute(t, p, "check", "--format", "json")
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, _ := json.Marshal(resp.Data)
	var report checkReport
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Equal(t, 1, report.Documents)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, "MALFORMED_DOCUMENT", report.Problems[0].Kind)
}
