package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

func TestDecode(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		tree, err := Decode([]byte("groups:\n  g1: Group One\n1: numeric\n"))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"g1": "Group One"}, tree["groups"])
		require.Equal(t, "numeric", tree["1"])
	})

	t.Run("json", func(t *testing.T) {
		tree, err := Decode([]byte(`{"display": {"access": ["public"]}}`))
		require.NoError(t, err)
		require.Equal(t, []any{"public"}, tree["display"].(map[string]any)["access"])
	})

	t.Run("empty", func(t *testing.T) {
		tree, err := Decode(nil)
		require.NoError(t, err)
		require.Empty(t, tree)
	})

	t.Run("non-mapping root", func(t *testing.T) {
		_, err := Decode([]byte("- a\n- b\n"))
		require.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing optional file", func(t *testing.T) {
		tree, err := LoadFile(filepath.Join(dir, "nope.yaml"), true)
		require.NoError(t, err)
		require.Empty(t, tree)
	})

	t.Run("missing required file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"), false)
		require.Error(t, err)
		require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("SASSDOC_TITLE", "Expanded")
		path := filepath.Join(dir, "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("title: ${SASSDOC_TITLE}\n"), 0o600))

		tree, err := LoadFile(path, false)
		require.NoError(t, err)
		require.Equal(t, "Expanded", tree["title"])
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("groups: [unclosed\n"), 0o600))
		_, err := LoadFile(path, false)
		require.Error(t, err)
	})
}

func TestWriteStarter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sassdoc.yaml")
	defaults := map[string]any{"groups": map[string]any{"undefined": "General"}}

	require.NoError(t, WriteStarter(path, defaults, false))
	require.Error(t, WriteStarter(path, defaults, false))
	require.NoError(t, WriteStarter(path, defaults, true))

	tree, err := LoadFile(path, false)
	require.NoError(t, err)
	require.Equal(t, defaults, tree)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("SASSDOC_FROM_ENV_FILE=yes\nSASSDOC_PRESET=file\n"), 0o600))
	t.Setenv("SASSDOC_PRESET", "process")
	t.Setenv("SASSDOC_FROM_ENV_FILE", "")
	require.NoError(t, os.Unsetenv("SASSDOC_FROM_ENV_FILE"))

	loaded := LoadEnv()
	require.Equal(t, []string{".env"}, loaded)
	require.Equal(t, "yes", os.Getenv("SASSDOC_FROM_ENV_FILE"))
	require.Equal(t, "process", os.Getenv("SASSDOC_PRESET"))
}
