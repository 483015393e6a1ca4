// Package config loads and validates the generation configuration file
// driving the CLI: which schema documents to translate, where the stubs go,
// and per-item engine arguments.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Engine policy names accepted in configuration files.
const (
	AdditionalPropertiesAlways       = "Always"
	AdditionalPropertiesOnlyExplicit = "Only explicit"
)

// APIArguments selects engine options for one generate item.
type APIArguments struct {
	AdditionalProperties string `json:"additional_properties,omitempty" yaml:"additional_properties,omitempty" validate:"omitempty,oneof='Always' 'Only explicit'"`
}

// GenerateItem is one source-to-destination generation task.
type GenerateItem struct {
	// Source is the path of the JSON Schema document to translate.
	Source string `json:"source" yaml:"source" validate:"required"`
	// Destination is the path of the emitted stub file.
	Destination string `json:"destination" yaml:"destination" validate:"required"`
	// RootName proposes a name for the root declaration when the document
	// has no title. Defaults to "Base".
	RootName string `json:"root_name,omitempty" yaml:"root_name,omitempty"`
	// APIArguments tunes the translation engine for this item.
	APIArguments APIArguments `json:"api_arguments,omitempty" yaml:"api_arguments,omitempty"`
	// NameMapping renames generated declarations (synthesized -> wanted).
	NameMapping map[string]string `json:"name_mapping,omitempty" yaml:"name_mapping,omitempty"`
}

// Config is the generation configuration document.
type Config struct {
	// Headers is emitted verbatim at the top of every generated file.
	Headers  string         `json:"headers,omitempty" yaml:"headers,omitempty"`
	Generate []GenerateItem `json:"generate" yaml:"generate" validate:"required,min=1,dive"`
}

// validate is package-level: constructing a validator per call is expensive.
var validate = validator.New()

// Load reads, decodes and validates a configuration file. JSON is selected
// by extension, everything else parses as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}

	for i := range cfg.Generate {
		if cfg.Generate[i].RootName == "" {
			cfg.Generate[i].RootName = "Base"
		}
	}
	return &cfg, nil
}

// Schema reflects the configuration file format into a JSON Schema, so
// config files can be validated and completed by schema-aware editors.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(&Config{})
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: marshal schema: %w", err)
	}
	return out, nil
}
