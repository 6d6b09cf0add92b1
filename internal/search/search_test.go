package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
)

func entities() []docmodel.Entity {
	return []docmodel.Entity{
		{
			"type":            "mixin",
			"group":           []any{"layout"},
			"context":         map[string]any{"name": "clearfix"},
			"htmlDescription": "<p>Clears floated children.</p>",
		},
		{
			"type":        "function",
			"context":     map[string]any{"name": "rem"},
			"description": "Converts pixels to rem units.",
		},
		{
			"type":    "function",
			"context": map[string]any{"name": "rem"},
		},
	}
}

func TestDocuments(t *testing.T) {
	docs := Documents(entities())
	require.Len(t, docs, 3)
	require.Equal(t, "mixin-clearfix", docs[0].ID)
	require.Equal(t, "Clears floated children.", docs[0].Description)
	require.Equal(t, []string{"undefined"}, docs[1].Groups)
	require.Equal(t, "function-rem-2", docs[2].ID)

	raw, err := JSON(docs)
	require.NoError(t, err)
	var back []map[string]any
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, "clearfix", back[0]["name"])
}

func TestIndexSearch(t *testing.T) {
	idx, err := NewIndex(Documents(entities()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	require.Equal(t, 3, idx.Count())

	hits, err := idx.Search("pixels", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, "rem", hits[0].Name)

	hits, err = idx.Search("clear", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, "mixin-clearfix", hits[0].ID)

	hits, err = idx.Search("   ", 5)
	require.NoError(t, err)
	require.Empty(t, hits)
}
