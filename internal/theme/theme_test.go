package theme

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

const minimalManifest = `
name: mini
profile:
  merge: [view]
passes: [display]
templates:
  - source: views/index.html.tmpl
    output: index.html
`

func miniFS() fstest.MapFS {
	return fstest.MapFS{
		ManifestFile:            {Data: []byte(minimalManifest)},
		"default.yaml":          {Data: []byte("view:\n  title: Mini\n")},
		"views/index.html.tmpl": {Data: []byte("{{.view.title}}")},
		"assets/css/main.css":   {Data: []byte("body{}")},
	}
}

func TestParseManifest_Defaults(t *testing.T) {
	m, err := ParseManifest([]byte(minimalManifest))
	require.NoError(t, err)

	require.Equal(t, "mini", m.Name)
	require.Equal(t, []string{"view"}, m.Profile.Merge)
	require.Equal(t, []string{"display"}, m.Passes)
	require.Equal(t, []Template{{Source: "views/index.html.tmpl", Output: "index.html"}}, m.Templates)
	require.Equal(t, "assets", m.Assets)
	require.Equal(t, "default.yaml", m.Defaults)
	require.False(t, m.Strict)
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing templates", doc: "name: x\n"},
		{name: "empty templates", doc: "name: x\ntemplates: []\n"},
		{name: "unknown pass", doc: "name: x\npasses: [fancy]\ntemplates:\n  - {source: a, output: b}\n"},
		{name: "unknown key", doc: "name: x\ncolour: red\ntemplates:\n  - {source: a, output: b}\n"},
		{name: "bad name", doc: "name: Not Valid\ntemplates:\n  - {source: a, output: b}\n"},
		{name: "not yaml", doc: "name: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	b, err := Load(miniFS())
	require.NoError(t, err)
	require.Equal(t, "mini", b.Name())

	defaults, err := b.Defaults()
	require.NoError(t, err)
	require.Equal(t, map[string]any{"view": map[string]any{"title": "Mini"}}, defaults)

	// Callers get private copies.
	defaults["view"].(map[string]any)["title"] = "changed"
	again, err := b.Defaults()
	require.NoError(t, err)
	require.Equal(t, "Mini", again["view"].(map[string]any)["title"])
}

func TestLoad_MissingTemplate(t *testing.T) {
	fsys := miniFS()
	delete(fsys, "views/index.html.tmpl")

	_, err := Load(fsys)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))
}

func TestLoad_NoDefaultsFile(t *testing.T) {
	fsys := miniFS()
	delete(fsys, "default.yaml")

	b, err := Load(fsys)
	require.NoError(t, err)
	defaults, err := b.Defaults()
	require.NoError(t, err)
	require.Empty(t, defaults)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for name, f := range miniFS() {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, f.Data, 0o600))
	}

	b, err := LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, "mini", b.Name())

	_, err = LoadDir(filepath.Join(dir, "missing"))
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestRegistry(t *testing.T) {
	b := MustLoad(miniFS())
	Register(b)
	Register(nil)

	got, err := Get("mini")
	require.NoError(t, err)
	require.Same(t, b, got)
	require.Contains(t, Names(), "mini")

	_, err = Get("does-not-exist")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	resolved, err := Resolve("mini")
	require.NoError(t, err)
	require.Same(t, b, resolved)
}
