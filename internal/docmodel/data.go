package docmodel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

// LoadFile reads the entity list written by `sassdoc --parse` (JSON) or an
// equivalent YAML document. The root may be a list of entities or a mapping
// with a "data" list.
func LoadFile(path string) ([]Entity, error) {
	// #nosec G304 -- path is supplied by the operator.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryData, "read data file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	entities, err := Decode(raw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryData, "decode data file").
			Fatal().
			UserAction().
			WithContext("path", path).
			Build()
	}
	return entities, nil
}

// Decode parses a data document into entities.
func Decode(raw []byte) ([]Entity, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	switch root := config.Normalize(doc).(type) {
	case map[string]any:
		return FromValue(root["data"])
	default:
		return FromValue(root)
	}
}

// FromValue converts a decoded list (e.g. the "data" key of the user
// configuration) into entities. nil yields an empty list.
func FromValue(v any) ([]Entity, error) {
	if v == nil {
		return []Entity{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("data must be a list of entities, got %s", config.KindOf(v))
	}
	out := make([]Entity, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data[%d] must be a mapping, got %s", i, config.KindOf(item))
		}
		out = append(out, Entity(m))
	}
	return out, nil
}
