// Package docmodel holds the SassDoc data model: documented entities as
// produced by the extraction stage, and the indexes derived from them.
package docmodel

import "fmt"

// UndefinedGroup is the group assigned to entities without any @group.
const UndefinedGroup = "undefined"

// Entity is one documented construct (function, mixin, variable, placeholder).
// The schema belongs to the extraction stage, so entities are kept as opaque
// decoded trees and only a handful of well-known keys are interpreted.
type Entity map[string]any

// Type returns the entity type as a string. A top-level "type" wins;
// otherwise context.type, where SassDoc's parser records it. Non-string
// values are formatted as-is; a missing type yields "".
func (e Entity) Type() string {
	v, ok := e["type"]
	if !ok {
		if ctx, isMap := e["context"].(map[string]any); isMap {
			v, ok = ctx["type"]
		}
	}
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Groups returns the group slugs, defaulting to [UndefinedGroup].
func (e Entity) Groups() []string {
	var groups []string
	switch g := e["group"].(type) {
	case []any:
		for _, item := range g {
			if item == nil {
				continue
			}
			if s := fmt.Sprint(item); s != "" {
				groups = append(groups, s)
			}
		}
	case []string:
		for _, s := range g {
			if s != "" {
				groups = append(groups, s)
			}
		}
	case string:
		if g != "" {
			groups = []string{g}
		}
	}
	if len(groups) == 0 {
		return []string{UndefinedGroup}
	}
	return groups
}

// Name returns context.name, the identifier SassDoc extracted for the entity.
func (e Entity) Name() string {
	ctx, ok := e["context"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := ctx["name"].(string)
	return name
}

// Access returns the access level, "public" when unset.
func (e Entity) Access() string {
	if a, ok := e["access"].(string); ok && a != "" {
		return a
	}
	return "public"
}

// IsAlias reports whether the entity is an alias of another item.
func (e Entity) IsAlias() bool {
	switch a := e["alias"].(type) {
	case nil:
		return false
	case bool:
		return a
	case string:
		return a != ""
	default:
		return true
	}
}

// String returns the scalar string stored at key, or "".
func (e Entity) String(key string) string {
	s, _ := e[key].(string)
	return s
}

// Anchor is the in-page fragment used by the built-in themes.
func (e Entity) Anchor() string {
	return e.Type() + "-" + e.Name()
}
