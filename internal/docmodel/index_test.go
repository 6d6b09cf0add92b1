package docmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByGroupAndType_MultiGroup(t *testing.T) {
	a := Entity{"type": "function", "group": []any{"g1", "g2"}}

	index := ByGroupAndType([]Entity{a})

	require.Equal(t, []Entity{a}, index["g1"]["function"])
	require.Equal(t, []Entity{a}, index["g2"]["function"])
	require.Equal(t, 2, index.Count())
}

func TestByGroupAndType_UndefinedGroup(t *testing.T) {
	a := Entity{"type": "variable"}
	b := Entity{"type": "variable", "group": []any{}}

	index := ByGroupAndType([]Entity{a, b})

	require.Len(t, index, 1)
	require.Equal(t, []Entity{a, b}, index[UndefinedGroup]["variable"])
}

func TestByGroupAndType_PreservesOrder(t *testing.T) {
	a := Entity{"type": "mixin", "group": []any{"g"}, "context": map[string]any{"name": "a"}}
	b := Entity{"type": "mixin", "group": []any{"g"}, "context": map[string]any{"name": "b"}}
	c := Entity{"type": "function", "group": []any{"g"}, "context": map[string]any{"name": "c"}}

	index := ByGroupAndType([]Entity{a, c, b})

	require.Equal(t, []Entity{a, b}, index["g"]["mixin"])
	require.Equal(t, []Entity{c}, index["g"]["function"])
}

func TestByGroupAndType_ContextType(t *testing.T) {
	clearfix := Entity{
		"context": map[string]any{"type": "mixin", "name": "clearfix"},
		"group":   []any{"g"},
	}
	explicit := Entity{"type": "function", "context": map[string]any{"type": "mixin", "name": "f"}}

	index := ByGroupAndType([]Entity{clearfix, explicit})

	require.Equal(t, []Entity{clearfix}, index["g"]["mixin"])
	require.Equal(t, []Entity{explicit}, index[UndefinedGroup]["function"])
	require.Equal(t, "mixin-clearfix", clearfix.Anchor())
}

func TestByGroupAndType_OpaqueType(t *testing.T) {
	odd := Entity{"type": "not-a-real-type", "group": []any{"g"}}
	index := ByGroupAndType([]Entity{odd})
	require.Equal(t, []Entity{odd}, index["g"]["not-a-real-type"])
}

func TestByGroupAndType_Empty(t *testing.T) {
	require.Empty(t, ByGroupAndType(nil))
}
