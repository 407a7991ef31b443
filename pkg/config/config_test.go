package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ".project", cfg.Project.Marker)
	assert.Equal(t, []string{".robot", ".txt"}, cfg.Project.Extensions)
	assert.Equal(t, "cp950", cfg.Project.EncodingFallback)
	assert.False(t, cfg.Exclude.Gitignore, "every suite under the root is indexed by default")
	assert.Contains(t, cfg.Exclude.Dirs, ".git")
	assert.Equal(t, "text", cfg.Output.Format)

	for _, name := range RuleNames() {
		rc := cfg.Rule(name)
		assert.True(t, rc.IsEnabled(), name)
		assert.NotEmpty(t, rc.Severity, name)
	}
	assert.Equal(t, "error", cfg.Rule(RuleUnusedKeyword).Severity)
	assert.Equal(t, "warning", cfg.Rule(RuleDuplicatedKeyword).Severity)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "kwgraph.toml", `
[project]
marker = "robot.root"
extensions = [".robot"]

[duplicates]
exclude_paths = ["vendor/"]
workers = 2

[rules.unused-keyword]
enabled = false

[rules.no-sleep]
severity = "error"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "robot.root", cfg.Project.Marker)
	assert.Equal(t, []string{".robot"}, cfg.Project.Extensions)
	assert.Equal(t, "cp950", cfg.Project.EncodingFallback, "unset keys keep defaults")
	assert.Equal(t, []string{"vendor/"}, cfg.Duplicates.ExcludePaths)
	assert.Equal(t, 2, cfg.Duplicates.Workers)

	unused := cfg.Rule(RuleUnusedKeyword)
	assert.False(t, unused.IsEnabled())
	assert.Equal(t, "error", unused.Severity, "severity survives a partial rule table")

	sleep := cfg.Rule(RuleNoSleep)
	assert.True(t, sleep.IsEnabled())
	assert.Equal(t, "error", sleep.Severity)
}

func TestLoad_YAMLAndJSON(t *testing.T) {
	yamlPath := writeConfig(t, "kwgraph.yaml", "output:\n  format: json\n  color: false\n")
	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)

	jsonPath := writeConfig(t, "kwgraph.json", `{"exclude": {"dirs": ["build"]}}`)
	cfg, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"build"}, cfg.Exclude.Dirs)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, source, err := LoadOrDefault(writeConfig(t, "x.toml", "[output]\nformat = \"toon\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "toon", cfg.Output.Format)
	assert.NotEmpty(t, source)

	dir := t.TempDir()
	t.Chdir(dir)
	cfg, source, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, source)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	assert.Empty(t, Find())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".kwgraph"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".kwgraph", "kwgraph.yaml"), nil, 0644))
	assert.Equal(t, filepath.Join(".kwgraph", "kwgraph.yaml"), Find())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "kwgraph.toml"), nil, 0644))
	assert.Equal(t, "kwgraph.toml", Find())
}

func TestShouldExcludeDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.ShouldExcludeDir(".git"))
	assert.True(t, cfg.ShouldExcludeDir("node_modules"))
	assert.False(t, cfg.ShouldExcludeDir("results"))
	assert.False(t, cfg.ShouldExcludeDir("suites"))
}

func TestHasExtension(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.HasExtension("a/Login.robot"))
	assert.True(t, cfg.HasExtension("Common.TXT"))
	assert.False(t, cfg.HasExtension("notes.md"))
	assert.False(t, cfg.HasExtension("Makefile"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"valid toml", "ok.toml", "[rules.no-sleep]\nseverity = \"warn\"\n[project]\nworkers = 4\n", ""},
		{"valid yaml", "ok.yaml", "duplicates:\n  workers: 0\n", ""},
		{"unknown section", "bad.toml", "[analysis]\nx = 1\n", "analysis"},
		{"unknown rule", "bad.toml", "[rules.no-such-rule]\nenabled = true\n", "rules"},
		{"bad severity", "bad.json", `{"rules": {"no-sleep": {"severity": "fatal"}}}`, "severity"},
		{"negative workers", "bad.toml", "[duplicates]\nworkers = -1\n", "workers"},
		{"bad extension", "bad.toml", "[project]\nextensions = [\"robot\"]\n", "extensions"},
		{"bad encoding", "bad.toml", "[project]\nencoding_fallback = \"ebcdic\"\n", "ebcdic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(writeConfig(t, tt.file, tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchemaEmbedded(t *testing.T) {
	assert.True(t, strings.Contains(string(Schema()), "duplicated-keyword"))
}

func TestMarshalTOML(t *testing.T) {
	off := false
	cfg := DefaultConfig()
	cfg.Rules[RuleNoSleep] = RuleConfig{Enabled: &off}

	data, err := cfg.MarshalTOML()
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `marker = ".project"`)
	assert.Contains(t, out, "[rules.no-sleep]")
	assert.Contains(t, out, "enabled = false")
	assert.Contains(t, out, `severity = "error"`)

	// The rendered file loads back to the same effective settings.
	path := writeConfig(t, "show.toml", out)
	require.NoError(t, Validate(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.Rule(RuleNoSleep).IsEnabled())
	assert.Equal(t, cfg.Project, loaded.Project)
}
