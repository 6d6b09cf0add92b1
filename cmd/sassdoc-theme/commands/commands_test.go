package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sassdoc-theme/internal/notify"

	_ "git.home.luguber.info/inful/sassdoc-theme/internal/themes/sassdoc"
	_ "git.home.luguber.info/inful/sassdoc-theme/internal/themes/starter"
)

const sampleData = `[
  {"context": {"type": "function", "name": "rem"}, "group": ["units"], "description": "Converts *px* to rem. Assumes a 16px root."},
  {"context": {"type": "mixin", "name": "clearfix"}, "group": ["layout"], "description": "Clears floats."},
  {"context": {"type": "variable", "name": "base-font-size"}, "group": ["units"], "description": "Root font size."}
]`

func parse(t *testing.T, args ...string) (*kong.Context, *CLI, *Global) {
	t.Helper()
	cli := &CLI{}
	global := &Global{}
	parser, err := kong.New(cli,
		kong.Name("sassdoc-theme"),
		kong.Vars{"version": "test", "default_config": DefaultConfigFile, "nats_subject": notify.DefaultSubject},
		kong.Bind(global),
		kong.Exit(func(int) { t.Fatalf("unexpected exit") }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx, cli, global
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	ctx, cli, global := parse(t, args...)
	return ctx.Run(global, cli)
}

func writeData(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sassdoc.json")
	require.NoError(t, os.WriteFile(p, []byte(sampleData), 0o600))
	return p
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	_, cli, global := parse(t, "-v", "-c", "custom.yaml", "themes")
	require.True(t, cli.Verbose)
	path, optional := cli.ConfigFile()
	require.False(t, optional)
	require.Equal(t, "custom.yaml", filepath.Base(path))
	require.NotNil(t, global.Logger)
}

func TestDefaultConfigIsOptional(t *testing.T) {
	cli := &CLI{}
	path, optional := cli.ConfigFile()
	require.Equal(t, DefaultConfigFile, path)
	require.True(t, optional)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLevel("debug").String())
	require.Equal(t, "WARN", parseLevel(" Warning ").String())
	require.Equal(t, "ERROR", parseLevel("error").String())
	require.Equal(t, "INFO", parseLevel("bogus").String())
}

func TestInitWritesThemeDefaults(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "sassdoc-theme.yaml")
	require.NoError(t, run(t, "-c", cfg, "init", "--theme", "sassdoc"))

	raw, err := os.ReadFile(cfg)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.Contains(t, doc, "groups")
	require.Contains(t, doc, "display")

	require.Error(t, run(t, "-c", cfg, "init"), "existing file needs --force")
	require.NoError(t, run(t, "-c", cfg, "init", "--theme", "starter", "--force"))
}

func TestRenderCommand(t *testing.T) {
	data := writeData(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("groups:\n  units: Units\n"), 0o600))
	dest := filepath.Join(dir, "out")
	history := filepath.Join(dir, "history.db")

	require.NoError(t, run(t, "-c", cfg, "render", "--data", data, "--dest", dest, "--history", history, "--report", "report.json"))

	index, err := os.ReadFile(filepath.Join(dest, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(index), "Units")
	require.Contains(t, string(index), "<em>px</em>")
	require.FileExists(t, filepath.Join(dest, "search.json"))
	require.FileExists(t, filepath.Join(dest, "report.json"))

	renders, err := RunHistory(context.Background(), history, 10)
	require.NoError(t, err)
	require.Len(t, renders, 1)
	require.Equal(t, "sassdoc", renders[0].Theme)
	require.Equal(t, 3, renders[0].Entities)

	require.NoError(t, run(t, "history", "--history", history))
}

func TestRenderMissingExplicitConfigFails(t *testing.T) {
	err := run(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "render", "--data", writeData(t), "--dest", t.TempDir())
	require.Error(t, err)
}

func TestRenderUnknownTheme(t *testing.T) {
	err := run(t, "render", "--data", writeData(t), "--dest", t.TempDir(), "--theme", "nope")
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	data := writeData(t)
	cli := &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := RunSearch(context.Background(), cli, data, "rem", 5)
	require.Error(t, err, "explicit config must exist")

	cli = &CLI{}
	hits, err := RunSearch(context.Background(), cli, data, "floats", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, "clearfix", hits[0].Name)
	require.Equal(t, "Clears floats.", hits[0].Summary)

	require.NoError(t, run(t, "search", "--data", data, "rem"))
}

func TestHistoryMissingDatabase(t *testing.T) {
	_, err := RunHistory(context.Background(), filepath.Join(t.TempDir(), "none.db"), 5)
	require.Error(t, err)
}

func TestThemesCommand(t *testing.T) {
	require.NoError(t, run(t, "themes"))
}

func TestPreviewWatchPaths(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "d.json")
	cfg := filepath.Join(dir, "c.yaml")
	p := &PreviewCmd{RenderFlags: RenderFlags{Data: data, Theme: "sassdoc"}}

	require.Equal(t, []string{data, cfg}, p.watchPaths(&CLI{Config: cfg}))

	p.Theme = dir
	paths := p.watchPaths(&CLI{})
	require.Contains(t, paths, dir)
	require.NotContains(t, paths, DefaultConfigFile)
}
