package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDefaults() map[string]any {
	return map[string]any{
		"groups": map[string]any{"undefined": "General"},
		"display": map[string]any{
			"access":    []any{"public", "private"},
			"alias":     false,
			"watermark": true,
		},
		"title": "SassDoc",
	}
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindMapping, KindOf(map[string]any{}))
	require.Equal(t, KindSequence, KindOf([]any{1}))
	require.Equal(t, KindScalar, KindOf("x"))
	require.Equal(t, KindScalar, KindOf(nil))
	require.Equal(t, "sequence", KindSequence.String())
}

func TestDeepMerge_KeepsEveryDefaultKey(t *testing.T) {
	d := sampleDefaults()
	u := map[string]any{
		"display": map[string]any{"alias": true},
		"extra":   "value",
	}

	got := DeepMerge(d, u)

	for k := range d {
		require.Contains(t, got, k)
	}
	display := got["display"].(map[string]any)
	require.Equal(t, true, display["alias"])
	require.Equal(t, []any{"public", "private"}, display["access"])
	require.Equal(t, true, display["watermark"])
	require.Equal(t, "value", got["extra"])
}

func TestDeepMerge_SequencesReplaced(t *testing.T) {
	got := DeepMerge(sampleDefaults(), map[string]any{
		"display": map[string]any{"access": []any{"public"}},
	})
	require.Equal(t, []any{"public"}, got["display"].(map[string]any)["access"])
}

func TestDeepMerge_ShapeMismatchPrefersOverride(t *testing.T) {
	got := DeepMerge(sampleDefaults(), map[string]any{"display": "none", "title": map[string]any{"a": 1}})
	require.Equal(t, "none", got["display"])
	require.Equal(t, map[string]any{"a": 1}, got["title"])
}

func TestDeepMerge_Idempotent(t *testing.T) {
	d := sampleDefaults()
	require.Equal(t, d, DeepMerge(d, map[string]any{}))
	require.Equal(t, d, DeepMerge(d, sampleDefaults()))
	require.Equal(t, d, DeepMerge(d, nil))
}

func TestDeepMerge_DoesNotMutateInputs(t *testing.T) {
	d := sampleDefaults()
	u := map[string]any{"groups": map[string]any{"g1": "Group One"}}

	got := DeepMerge(d, u)
	got["groups"].(map[string]any)["g2"] = "mutated"
	got["display"].(map[string]any)["access"].([]any)[0] = "mutated"

	require.Equal(t, sampleDefaults(), d)
	require.Equal(t, map[string]any{"groups": map[string]any{"g1": "Group One"}}, u)
}

func TestMergeProfile(t *testing.T) {
	d := sampleDefaults()

	t.Run("deep keys merge recursively", func(t *testing.T) {
		got := MergeProfile(d, map[string]any{"groups": map[string]any{"g1": "Group One"}}, []string{"groups", "display"})
		require.Equal(t, map[string]any{"undefined": "General", "g1": "Group One"}, got["groups"])
	})

	t.Run("other keys are replaced wholesale", func(t *testing.T) {
		defaults := map[string]any{"package": map[string]any{"name": "x", "version": "1"}}
		got := MergeProfile(defaults, map[string]any{"package": map[string]any{"name": "y"}}, []string{"view"})
		require.Equal(t, map[string]any{"name": "y"}, got["package"])
	})

	t.Run("nested settings override", func(t *testing.T) {
		defaults := map[string]any{
			"groups":  map[string]any{},
			"display": map[string]any{"access": []any{"public"}},
		}
		got := MergeProfile(defaults, map[string]any{"groups": map[string]any{"g1": "Group One"}}, []string{"groups", "display"})
		require.Equal(t, map[string]any{"g1": "Group One"}, got["groups"])
		require.Equal(t, []any{"public"}, got["display"].(map[string]any)["access"])
	})
}

func TestLookup(t *testing.T) {
	tree := sampleDefaults()

	v, ok := Lookup(tree, "display", "alias")
	require.True(t, ok)
	require.Equal(t, false, v)

	_, ok = Lookup(tree, "display", "missing")
	require.False(t, ok)

	_, ok = Lookup(tree, "title", "deeper")
	require.False(t, ok)
}
