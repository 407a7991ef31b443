package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Rule names understood by the rules section.
const (
	RuleUnusedKeyword        = "unused-keyword"
	RuleMoveKeyword          = "move-keyword"
	RuleDuplicatedKeyword    = "duplicated-keyword"
	RuleTrailingWhitespace   = "trailing-whitespace"
	RuleMoreThanOneBlankLine = "more-than-one-blank-line"
	RuleAssignmentStyle      = "assignment-style"
	RuleCamelCaseKeyword     = "camel-case-keyword"
	RuleNoSleep              = "no-sleep"
	RuleMissingWaitTimeout   = "missing-wait-timeout"
)

// Config holds all configuration options for kwgraph.
type Config struct {
	// Project boundary and file selection
	Project ProjectConfig `koanf:"project" toml:"project"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Duplicate detection settings
	Duplicates DuplicatesConfig `koanf:"duplicates" toml:"duplicates"`

	// Per-rule switches and severities
	Rules map[string]RuleConfig `koanf:"rules" toml:"rules"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ProjectConfig controls project root discovery and enumeration.
type ProjectConfig struct {
	Marker           string   `koanf:"marker" toml:"marker"`
	Extensions       []string `koanf:"extensions" toml:"extensions"`
	EncodingFallback string   `koanf:"encoding_fallback" toml:"encoding_fallback"`
	Workers          int      `koanf:"workers" toml:"workers"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// DuplicatesConfig controls duplicate keyword detection.
type DuplicatesConfig struct {
	// ExcludePaths are path fragments; definitions in matching files are
	// never reported as the other side of a duplicate.
	ExcludePaths []string `koanf:"exclude_paths" toml:"exclude_paths"`
	Workers      int      `koanf:"workers" toml:"workers"`
}

// RuleConfig enables a rule and overrides its severity. Unset fields keep
// the rule's defaults.
type RuleConfig struct {
	Enabled  *bool  `koanf:"enabled" toml:"enabled"`
	Severity string `koanf:"severity" toml:"severity"`
}

// IsEnabled reports whether the rule runs; rules are on unless disabled.
func (r RuleConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Marker:           ".project",
			Extensions:       []string{".robot", ".txt"},
			EncodingFallback: "cp950",
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				".git",
				".kwgraph",
				"node_modules",
				"__pycache__",
			},
		},
		Duplicates: DuplicatesConfig{},
		Rules:      defaultRules(),
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

func defaultRules() map[string]RuleConfig {
	return map[string]RuleConfig{
		RuleUnusedKeyword:        {Severity: "error"},
		RuleMoveKeyword:          {Severity: "error"},
		RuleDuplicatedKeyword:    {Severity: "warning"},
		RuleTrailingWhitespace:   {Severity: "warning"},
		RuleMoreThanOneBlankLine: {Severity: "warning"},
		RuleAssignmentStyle:      {Severity: "warning"},
		RuleCamelCaseKeyword:     {Severity: "warning"},
		RuleNoSleep:              {Severity: "warning"},
		RuleMissingWaitTimeout:   {Severity: "warning"},
	}
}

// RuleNames lists every known rule in a stable order.
func RuleNames() []string {
	return []string{
		RuleUnusedKeyword,
		RuleMoveKeyword,
		RuleDuplicatedKeyword,
		RuleTrailingWhitespace,
		RuleMoreThanOneBlankLine,
		RuleAssignmentStyle,
		RuleCamelCaseKeyword,
		RuleNoSleep,
		RuleMissingWaitTimeout,
	}
}

// parserFor picks a koanf parser from the file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadRaw loads a config file without applying defaults, for validation.
func LoadRaw(path string) (map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// configNames are searched in order in every search directory.
var configNames = []string{
	"kwgraph.toml",
	"kwgraph.yaml",
	"kwgraph.yml",
	"kwgraph.json",
	".kwgraph.toml",
	".kwgraph.yaml",
	".kwgraph.yml",
	".kwgraph.json",
}

// Find returns the first config file found in the standard locations.
func Find() string {
	searchDirs := []string{".", ".kwgraph"}
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault loads path when set, otherwise the first standard config
// file, otherwise the defaults.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		path = Find()
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Rule returns the settings of a rule with unset fields filled from the
// defaults.
func (c *Config) Rule(name string) RuleConfig {
	rc := defaultRules()[name]
	if set, ok := c.Rules[name]; ok {
		if set.Enabled != nil {
			rc.Enabled = set.Enabled
		}
		if set.Severity != "" {
			rc.Severity = set.Severity
		}
	}
	return rc
}

// ShouldExcludeDir checks if a directory name is excluded from scanning.
func (c *Config) ShouldExcludeDir(name string) bool {
	for _, dir := range c.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}

// HasExtension reports whether path carries one of the project extensions.
func (c *Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Project.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
