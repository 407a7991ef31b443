package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/kwgraph/internal/testutil"
	"github.com/panbanda/kwgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func fixture(t *testing.T) string {
	t.Helper()
	return testutil.Project(t, map[string]string{
		"Common.txt": testutil.Suite(
			"*** Keywords ***",
			"Login As",
			"    Go To    ${LOGIN}",
			"",
			"Never Used",
			"    Sleep    1s",
		),
		"suites/Login.robot": testutil.Suite(
			"*** Test Cases ***",
			"Valid Login",
			"    Login As",
			"",
			"*** Keywords ***",
			"Login As",
			"    Go To    ${LOGIN}",
		),
	})
}

// run executes the CLI with output redirected to a file and returns what
// was written there.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf

	argv := append([]string{"kwgraph", "--no-color", "-o", out}, args...)
	err := app.Run(argv)
	data, readErr := os.ReadFile(out)
	if readErr != nil {
		return buf.String(), err
	}
	return string(data), err
}

func TestGetPath(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"no args defaults to current dir", nil, "."},
		{"single path", []string{"/foo/bar"}, "/foo/bar"},
		{"first path wins", []string{"/foo", "/bar"}, "/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			app := &cli.App{Action: func(c *cli.Context) error {
				got = getPath(c)
				return nil
			}}
			require.NoError(t, app.Run(append([]string{"test"}, tt.args...)))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLintCommand(t *testing.T) {
	root := fixture(t)
	out, err := run(t, "-f", "json", "lint", root)
	require.NoError(t, err)

	var report models.LintReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Summary.FilesAnalyzed)
	assert.Equal(t, 1, report.Summary.ByRule["unused-keyword"])
	assert.Equal(t, 2, report.Summary.ByRule["duplicated-keyword"])
	assert.Equal(t, 1, report.Summary.ByRule["no-sleep"])
}

func TestLintCommand_Text(t *testing.T) {
	out, err := run(t, "lint", fixture(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Keyword Diagnostics")
	assert.Contains(t, out, "Unused Keyword")
	assert.Contains(t, out, "DO NOT USE SLEEP!")
}

func TestLintCommand_FailOn(t *testing.T) {
	root := fixture(t)

	_, err := run(t, "-f", "json", "lint", "--fail-on", "error", root)
	var exit cli.ExitCoder
	require.True(t, errors.As(err, &exit), "got %v", err)
	assert.Equal(t, exitFindings, exit.ExitCode())

	_, err = run(t, "-f", "json", "lint", "--rule", "camel-case-keyword", "--fail-on", "warning", root)
	assert.NoError(t, err)

	_, err = run(t, "lint", "--fail-on", "fatal", root)
	assert.ErrorContains(t, err, "fail-on")
}

func TestRuleCommands(t *testing.T) {
	root := fixture(t)
	tests := []struct {
		command string
		rules   []string
	}{
		{"unused", []string{"unused-keyword"}},
		{"move", []string{"move-keyword"}},
		{"duplicates", []string{"duplicated-keyword"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			out, err := run(t, "-f", "json", tt.command, root)
			require.NoError(t, err)

			var report models.LintReport
			require.NoError(t, json.Unmarshal([]byte(out), &report))
			assert.Equal(t, tt.rules, report.Rules)
		})
	}
}

func TestStyleCommand(t *testing.T) {
	out, err := run(t, "-f", "json", "style", fixture(t))
	require.NoError(t, err)

	var report models.LintReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Rules, 6)
	assert.Equal(t, 1, report.Summary.ByRule["no-sleep"])
}

func TestIndexCommand(t *testing.T) {
	out, err := run(t, "-f", "json", "index", "--names", fixture(t))
	require.NoError(t, err)

	var report models.IndexReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Summary.Files)
	assert.Equal(t, 3, report.Summary.Definitions)
	require.Len(t, report.Files, 2)
	assert.Equal(t, []string{"Go To", "Login As"}, report.Files[1].UsedNames)

	text, err := run(t, "index", fixture(t))
	require.NoError(t, err)
	assert.Contains(t, text, "Project Index")
	assert.Contains(t, text, "Common.txt")
}

func TestClustersCommand(t *testing.T) {
	out, err := run(t, "-f", "json", "clusters", fixture(t))
	require.NoError(t, err)

	var report models.ClusterReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Name, 1)
	assert.Equal(t, "loginas", report.Name[0].Key)
	require.Len(t, report.Implementation, 1)

	text, err := run(t, "clusters", fixture(t))
	require.NoError(t, err)
	assert.Contains(t, text, "Keyword Clusters")
	assert.Contains(t, text, "suites/Login.robot:6  Login As")
	assert.Contains(t, text, "By implementation")
}

func TestProjectRootNotFound(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "kwgraph.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[project]\nmarker = \"no-such-marker-file\"\n"), 0644))

	_, err := run(t, "-c", cfg, "lint", t.TempDir())
	assert.ErrorContains(t, err, "project root not found")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "kwgraph.toml")
	require.NoError(t, os.WriteFile(valid, []byte("[rules.no-sleep]\nenabled = false\n"), 0644))
	invalid := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[rules.no-such-rule]\nenabled = true\n"), 0644))

	_, err := run(t, "-c", valid, "config", "validate")
	assert.NoError(t, err)

	_, err = run(t, "-c", invalid, "config", "validate")
	var exit cli.ExitCoder
	require.True(t, errors.As(err, &exit), "got %v", err)
	assert.Equal(t, 1, exit.ExitCode())

	out, err := run(t, "-c", valid, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Configuration from: "+valid)
	assert.Contains(t, out, "[rules.no-sleep]")
	assert.Contains(t, out, "enabled = false")

	out, err = run(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "duplicated-keyword")
}

func TestMCPManifestCommand(t *testing.T) {
	out, err := run(t, "mcp", "manifest")
	require.NoError(t, err)
	assert.Contains(t, out, "io.github.panbanda/kwgraph")
}

func TestVersionVariable(t *testing.T) {
	assert.NotEmpty(t, version)
}
