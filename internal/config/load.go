package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

// envFiles are tried in order; values never override the process environment.
var envFiles = []string{".env", ".env.local"}

// LoadEnv loads KEY=VALUE pairs from .env files in the working directory.
// It returns the files that were loaded.
func LoadEnv() []string {
	var loaded []string
	for _, p := range envFiles {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load env file", "path", p, "error", err)
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}

// LoadFile reads a user configuration object from a YAML or JSON file.
// ${VAR} references are expanded from the environment before decoding.
// When optional is true a missing file yields an empty object.
func LoadFile(path string, optional bool) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	// #nosec G304 -- path is supplied by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && optional {
			slog.Debug("No configuration file, using theme defaults", "path", path)
			return map[string]any{}, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	tree, err := Decode([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "decode configuration file").
			Fatal().
			UserAction().
			WithContext("path", path).
			Build()
	}
	return tree, nil
}

// Decode parses a YAML (or JSON, which is a subset) document holding a single
// mapping. An empty document decodes to an empty mapping.
func Decode(data []byte) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	tree, ok := Normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("configuration root must be a mapping, got %s", KindOf(raw))
	}
	return tree, nil
}

// Normalize converts map[any]any nodes (yaml keys that are not strings) into
// map[string]any so the tree only contains the three Kind shapes.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = Normalize(inner)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[fmt.Sprint(k)] = Normalize(inner)
		}
		return out
	case []any:
		for i, inner := range t {
			t[i] = Normalize(inner)
		}
		return t
	default:
		return v
	}
}

// WriteStarter writes a starter configuration seeded from theme defaults.
func WriteStarter(path string, defaults map[string]any, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	var buf bytes.Buffer
	buf.WriteString("# sassdoc-theme configuration. Values here override the theme defaults.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(defaults); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode starter configuration").Build()
	}
	if err := enc.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode starter configuration").Build()
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}
