package docmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntityAccessors(t *testing.T) {
	e := Entity{
		"type":    "mixin",
		"group":   []any{"g1", "", "g2"},
		"context": map[string]any{"type": "mixin", "name": "clearfix"},
		"access":  "private",
		"alias":   "other-mixin",
	}

	require.Equal(t, "mixin", e.Type())
	require.Equal(t, []string{"g1", "g2"}, e.Groups())
	require.Equal(t, "clearfix", e.Name())
	require.Equal(t, "private", e.Access())
	require.True(t, e.IsAlias())
	require.Equal(t, "mixin-clearfix", e.Anchor())
}

func TestEntityDefaults(t *testing.T) {
	e := Entity{}

	require.Equal(t, "", e.Type())
	require.Equal(t, []string{UndefinedGroup}, e.Groups())
	require.Equal(t, "", e.Name())
	require.Equal(t, "public", e.Access())
	require.False(t, e.IsAlias())
}

func TestEntityMalformedType(t *testing.T) {
	require.Equal(t, "42", Entity{"type": 42}.Type())
	require.Equal(t, []string{"solo"}, Entity{"group": "solo"}.Groups())
	require.Equal(t, []string{UndefinedGroup}, Entity{"group": []any{}}.Groups())
}
