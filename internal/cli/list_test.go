package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommandEmpty(t *testing.T) {
	p := newTestProject(t)

	out, err := execute(t, p, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No rule documents found")
}

func TestListCommandShowsOrderAndSource(t *testing.T) {
	p := newTestProject(t)
	p.addRule(t, p.RulesDir, "200-colors.md", "*.css", "", "colors\n")
	p.addRule(t, p.RulesDir, "100-layout.md", "*.css", "", "layout\n")
	p.addRule(t, p.OverridesDir, "300-mine.md", "*.css", "", "mine\n")

	out, err := execute(t, p, "list")
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "100-layout.md"), strings.Index(out, "200-colors.md"))
	assert.Contains(t, out, "src=local")
	assert.Contains(t, out, "src=remote")
}

func TestListCommandPathFilter(t *testing.T) {
	p := newTestProject(t)
	p.addRule(t, p.RulesDir, "100-css.md", "*.css", "", "css\n")
	p.addRule(t, p.RulesDir, "200-js.md", "*.js", "", "js\n")

	out, err := execute(t, p, "list", "--path", "app.js")
	require.NoError(t, err)
	assert.Contains(t, out, "200-js.md")
	assert.NotContains(t, out, "100-css.md")
}

func TestListCommandJSON(t *testing.T) {
	p := newTestProject(t)
	p.addRule(t, p.RulesDir, "100-css.md", "*.css", "styling", "css\n")

	out, err := execute(t, p, "list", "--format", "json")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, _ := json.Marshal(resp.Data)
	var entries []listEntry
	require.NoError(t, json.Unmarshal(data, &entries))

	require.Len(t, entries, 1)
	assert.Equal(t, "100-css.md", entries[0].Identifier)
	assert.Equal(t, "styling", entries[0].Category)
	assert.Equal(t, []string{"*.css"}, entries[0].Scopes)
}
