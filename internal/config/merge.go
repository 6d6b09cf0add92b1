package config

// Kind classifies a decoded configuration value.
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "scalar"
	}
}

// KindOf reports whether v is a mapping, a sequence or a scalar. Values decoded
// by yaml.v3 or encoding/json only ever produce map[string]any and []any for
// the two container kinds; anything else (including nil) is a scalar.
func KindOf(v any) Kind {
	switch v.(type) {
	case map[string]any:
		return KindMapping
	case []any:
		return KindSequence
	default:
		return KindScalar
	}
}

// DeepMerge merges overrides on top of defaults and returns a new tree.
//   - mapping + mapping: merged key by key, recursively
//   - anything else: the override wins when present, the default otherwise
//
// Sequences are atomic values and are never concatenated. Neither input is
// mutated and the result shares no containers with them.
func DeepMerge(defaults, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = Clone(v)
	}
	for k, v := range overrides {
		out[k] = mergeValue(out[k], v)
	}
	return out
}

func mergeValue(def, override any) any {
	dm, dok := def.(map[string]any)
	om, ook := override.(map[string]any)
	if dok && ook {
		return DeepMerge(dm, om)
	}
	return Clone(override)
}

// MergeProfile applies the theme merge profile: the listed top-level keys are
// deep-merged, every other top-level key is shallow-extended (the user value
// replaces the default wholesale).
func MergeProfile(defaults, user map[string]any, deepKeys []string) map[string]any {
	deep := make(map[string]struct{}, len(deepKeys))
	for _, k := range deepKeys {
		deep[k] = struct{}{}
	}

	out := make(map[string]any, len(defaults)+len(user))
	for k, v := range defaults {
		out[k] = Clone(v)
	}
	for k, v := range user {
		if _, ok := deep[k]; ok {
			out[k] = mergeValue(out[k], v)
			continue
		}
		out[k] = Clone(v)
	}
	return out
}

// Clone returns a deep copy of a decoded configuration value.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, inner := range t {
			cp[k] = Clone(inner)
		}
		return cp
	case []any:
		cp := make([]any, len(t))
		for i, inner := range t {
			cp[i] = Clone(inner)
		}
		return cp
	default:
		return v
	}
}

// CloneMap is Clone for the common top-level case.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return Clone(m).(map[string]any)
}

// Lookup walks a key path (e.g. "display", "access") through nested mappings.
func Lookup(tree map[string]any, path ...string) (any, bool) {
	var cur any = tree
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
