package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
	"git.home.luguber.info/inful/sassdoc-theme/internal/enrich"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
	"git.home.luguber.info/inful/sassdoc-theme/internal/rendercontext"
	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
	"git.home.luguber.info/inful/sassdoc-theme/internal/themes/sassdoc"
	"git.home.luguber.info/inful/sassdoc-theme/internal/themes/starter"
)

const groupsTemplate = `<h1>Docs</h1>
{{- range $slug := sortedKeys .data.byGroupAndType}}
<h2>{{groupTitle $.groups $slug}}</h2>
{{- end}}
{{.missing}}`

func testTheme(t *testing.T, strict bool) theme.Theme {
	t.Helper()
	manifest := "name: test\nprofile:\n  merge: [groups, display]\ntemplates:\n  - source: views/index.html.tmpl\n    output: index.html\nignore: [\"*.tmp\"]\n"
	if strict {
		manifest += "strict: true\n"
	}
	b, err := theme.Load(fstest.MapFS{
		theme.ManifestFile:        {Data: []byte(manifest)},
		"views/index.html.tmpl":   {Data: []byte(groupsTemplate)},
		"assets/css/main.css":     {Data: []byte("body{}")},
		"assets/js/app.js":        {Data: []byte("//")},
		"assets/js/scratch.tmp":   {Data: []byte("x")},
		"assets/img/nested/a.svg": {Data: []byte("<svg/>")},
	})
	require.NoError(t, err)
	return b
}

func scenarioContext(t *testing.T) *rendercontext.Context {
	t.Helper()
	rc, err := rendercontext.Build(context.Background(),
		map[string]any{
			"groups":  map[string]any{},
			"display": map[string]any{"access": []any{"public"}},
		},
		map[string]any{"groups": map[string]any{"g1": "Group One"}},
		[]docmodel.Entity{{"type": "variable", "group": []any{"g1"}, "description": "x"}},
		rendercontext.Options{MergeKeys: []string{"groups", "display"}})
	require.NoError(t, err)
	return rc
}

func TestRender_EndToEndScenario(t *testing.T) {
	dest := t.TempDir()
	// Stale files are overwritten silently.
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "assets", "css"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "assets", "css", "main.css"), []byte("old"), 0o600))

	r, err := New(testTheme(t, false))
	require.NoError(t, err)

	res, err := r.Render(context.Background(), scenarioContext(t), dest)
	require.NoError(t, err)
	require.Equal(t, []string{"index.html"}, res.Pages)
	require.Equal(t, 4, res.Files())

	page, err := os.ReadFile(filepath.Join(dest, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "<h2>Group One</h2>")

	css, err := os.ReadFile(filepath.Join(dest, "assets", "css", "main.css"))
	require.NoError(t, err)
	require.Equal(t, "body{}", string(css))
	require.FileExists(t, filepath.Join(dest, "assets", "img", "nested", "a.svg"))
	require.NoFileExists(t, filepath.Join(dest, "assets", "js", "scratch.tmp"))
}

func TestRender_StrictMissingKey(t *testing.T) {
	r, err := New(testTheme(t, true))
	require.NoError(t, err)

	_, err = r.Render(context.Background(), scenarioContext(t), t.TempDir())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryTemplate))
}

func TestRender_DestinationNotWritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	r, err := New(testTheme(t, false))
	require.NoError(t, err)

	_, err = r.Render(context.Background(), scenarioContext(t), filepath.Join(blocker, "out"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestRender_Canceled(t *testing.T) {
	r, err := New(testTheme(t, false))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, scenarioContext(t), t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRender_BuiltinThemes(t *testing.T) {
	entities := []docmodel.Entity{
		{
			"type":        "mixin",
			"group":       []any{"layout"},
			"context":     map[string]any{"type": "mixin", "name": "clearfix"},
			"description": "Clears **floats**.",
			"parameter":   []any{map[string]any{"name": "important", "type": "Bool", "default": "false"}},
		},
		{
			"type":    "function",
			"access":  "private",
			"context": map[string]any{"type": "function", "name": "secret"},
		},
	}

	for _, name := range []string{sassdoc.Name, starter.Name} {
		t.Run(name, func(t *testing.T) {
			th, err := theme.Get(name)
			require.NoError(t, err)
			defaults, err := th.Defaults()
			require.NoError(t, err)

			m := th.Manifest()
			passes := m.Passes
			if name == sassdoc.Name {
				passes = []string{enrich.PassDisplay, enrich.PassGroupName, enrich.PassSummary}
			}
			rc, err := rendercontext.Build(context.Background(), defaults,
				map[string]any{"groups": map[string]any{"layout": "Layout"}},
				entities,
				rendercontext.Options{MergeKeys: m.Profile.Merge, Passes: passes})
			require.NoError(t, err)

			r, err := New(th)
			require.NoError(t, err)
			dest := t.TempDir()
			_, err = r.Render(context.Background(), rc, dest)
			require.NoError(t, err)

			page, err := os.ReadFile(filepath.Join(dest, "index.html"))
			require.NoError(t, err)
			require.Contains(t, string(page), "Layout")
			require.Contains(t, string(page), "clearfix")
			require.Contains(t, string(page), "<strong>floats</strong>")
			require.FileExists(t, filepath.Join(dest, "assets", "css", "main.css"))
		})
	}
}

func TestWriteFile_RejectsTraversal(t *testing.T) {
	dest := t.TempDir()
	for _, rel := range []string{"../escape.html", "/abs.html", "a/../../b.html", ""} {
		_, err := WriteFile(dest, rel, []byte("x"))
		require.Error(t, err, rel)
	}

	full, err := WriteFile(dest, "nested/dir/page.html", []byte("ok"))
	require.NoError(t, err)
	require.FileExists(t, full)
}

func TestSortedKeysAndHasKey(t *testing.T) {
	idx := docmodel.GroupedIndex{"b": nil, "a": nil}
	require.Equal(t, []string{"a", "b"}, sortedKeys(idx))
	require.Nil(t, sortedKeys([]string{"x"}))

	require.True(t, hasKey(docmodel.Entity{"display": false}, "display"))
	require.False(t, hasKey(map[string]any{}, "display"))
	require.False(t, hasKey(nil, "display"))
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "helpers-mixins", Slugify("Helpers & Mixins"))
	require.Equal(t, "undefined", Slugify("undefined"))
	require.Equal(t, "", Slugify("--"))
}

func TestSafeHTML(t *testing.T) {
	require.Equal(t, "", string(safeHTML(nil)))
	require.Equal(t, "<b>x</b>", string(safeHTML("<b>x</b>")))
	require.Equal(t, "1", string(safeHTML(1)))
}
