package theme

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
)

// ManifestFile is read from the theme root.
const ManifestFile = "theme.yaml"

const (
	defaultAssetsDir    = "assets"
	defaultDefaultsFile = "default.yaml"
	schemaURL           = "https://sassdoc-theme.local/manifest.schema.json"
)

//go:embed manifest.schema.json
var manifestSchema []byte

// Manifest declares what a theme renders and how its context is built.
type Manifest struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Profile     Profile    `yaml:"profile,omitempty"`
	Passes      []string   `yaml:"passes,omitempty"`
	Templates   []Template `yaml:"templates"`
	// Partials are parsed alongside every template so they can be invoked
	// with {{template "name" .}}.
	Partials []string `yaml:"partials,omitempty"`
	Assets   string   `yaml:"assets,omitempty"`
	Ignore   []string `yaml:"ignore,omitempty"`
	// Strict makes references to undefined keys fail the render.
	Strict   bool   `yaml:"strict,omitempty"`
	Defaults string `yaml:"defaults,omitempty"`
}

// Profile is the configuration merge profile.
type Profile struct {
	// Merge lists top-level keys merged key by key with the user's settings.
	Merge []string `yaml:"merge,omitempty"`
}

// Template maps a template source to its output path, both slash separated.
type Template struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
}

// ParseManifest decodes and validates a manifest document.
func ParseManifest(raw []byte) (Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if err := validateManifest(config.Normalize(doc)); err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Assets == "" {
		m.Assets = defaultAssetsDir
	}
	if m.Defaults == "" {
		m.Defaults = defaultDefaultsFile
	}
	return m, nil
}

func validateManifest(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("invalid manifest: %s", flattenValidation(err))
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchema))
	if err != nil {
		return nil, fmt.Errorf("manifest schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("manifest schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

func flattenValidation(err error) string {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var leaves []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e.Error())
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return strings.Join(leaves, "; ")
}
