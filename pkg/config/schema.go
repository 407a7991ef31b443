package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/panbanda/kwgraph/pkg/robot"
	"github.com/pelletier/go-toml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "kwgraph.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Schema returns the embedded JSON Schema for config files.
func Schema() []byte {
	return schemaJSON
}

// ValidateRaw checks decoded config values against the schema and the
// settings the schema cannot express.
func ValidateRaw(raw map[string]any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Parsers disagree on numeric types; a JSON round trip normalizes them.
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return err
	}

	if project, ok := raw["project"].(map[string]any); ok {
		if name, ok := project["encoding_fallback"].(string); ok {
			if _, err := robot.LookupEncoding(name); err != nil {
				return fmt.Errorf("project.encoding_fallback: %w", err)
			}
		}
	}
	return nil
}

// Validate loads the config file at path and validates it.
func Validate(path string) error {
	raw, err := LoadRaw(path)
	if err != nil {
		return err
	}
	return ValidateRaw(raw)
}

type effectiveRule struct {
	Enabled  bool   `toml:"enabled"`
	Severity string `toml:"severity"`
}

type effectiveConfig struct {
	Project    ProjectConfig            `toml:"project"`
	Exclude    ExcludeConfig            `toml:"exclude"`
	Duplicates DuplicatesConfig         `toml:"duplicates"`
	Rules      map[string]effectiveRule `toml:"rules"`
	Output     OutputConfig             `toml:"output"`
}

// MarshalTOML renders the effective configuration, every rule resolved
// against its defaults.
func (c *Config) MarshalTOML() ([]byte, error) {
	eff := effectiveConfig{
		Project:    c.Project,
		Exclude:    c.Exclude,
		Duplicates: c.Duplicates,
		Rules:      make(map[string]effectiveRule, len(RuleNames())),
		Output:     c.Output,
	}
	for _, name := range RuleNames() {
		rc := c.Rule(name)
		eff.Rules[name] = effectiveRule{Enabled: rc.IsEnabled(), Severity: rc.Severity}
	}
	return toml.Marshal(eff)
}
