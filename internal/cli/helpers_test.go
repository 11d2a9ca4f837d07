package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testProject lays out a project on disk: a config file, a remote source
// directory, rules and overrides directories, and a manifest path.
type testProject struct {
	ConfigPath   string
	RemoteDir    string
	RulesDir     string
	OverridesDir string
}

func newTestProject(t *testing.T) *testProject {
	t.Helper()
	root := t.TempDir()

	p := &testProject{
		ConfigPath:   filepath.Join(root, "rulestack.yaml"),
		RemoteDir:    filepath.Join(root, "remote"),
		RulesDir:     filepath.Join(root, "rules"),
		OverridesDir: filepath.Join(root, "overrides"),
	}
	require.NoError(t, os.MkdirAll(p.RemoteDir, 0o755))
	require.NoError(t, os.MkdirAll(p.RulesDir, 0o755))
	require.NoError(t, os.MkdirAll(p.OverridesDir, 0o755))

	cfg := `
rules:
  dir: ` + p.RulesDir + `
  overrides_dir: ` + p.OverridesDir + `
  manifest_path: ` + filepath.Join(root, "manifest.db") + `
remote:
  type: dir
  path: ` + p.RemoteDir + `
store:
  conflict_categories: true
`
	require.NoError(t, os.WriteFile(p.ConfigPath, []byte(cfg), 0o644))
	return p
}

// addRule writes a rule document into the given directory.
func (p *testProject) addRule(t *testing.T, dir, name, globs, category, body string) {
	t.Helper()
	content := "---\ndescription: " + name + "\n"
	if globs != "" {
		content += "globs: \"" + globs + "\"\n"
	}
	if category != "" {
		content += "category: " + category + "\n"
	}
	content += "---\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// writeRaw writes arbitrary file content into the rules directory.
func writeRaw(t *testing.T, p *testProject, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(p.RulesDir, name), []byte(content), 0o644))
}

// execute runs the CLI with the project's config and returns stdout.
func execute(t *testing.T, p *testProject, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, "--config", p.ConfigPath))
	err := cmd.Execute()
	return buf.String(), err
}
