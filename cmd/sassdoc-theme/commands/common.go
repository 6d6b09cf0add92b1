package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/normalization"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "SASSDOC_THEME_LOG_LEVEL"

// DefaultConfigFile is read when --config is not given. It may be absent.
const DefaultConfigFile = "sassdoc-theme.yaml"

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"User configuration file (YAML or JSON). Defaults to ${default_config} when present." type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging."`
	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Render  RenderCmd  `cmd:"" default:"withargs" help:"Render documentation from SassDoc data."`
	Init    InitCmd    `cmd:"" help:"Write a starter configuration from a theme's defaults."`
	Preview PreviewCmd `cmd:"" help:"Render, serve and re-render on change."`
	Search  SearchCmd  `cmd:"" help:"Search documented items."`
	History HistoryCmd `cmd:"" help:"Show recent renders from the history database."`
	Themes  ThemesCmd  `cmd:"" help:"List built-in themes."`
}

// AfterApply runs after flag parsing; it loads .env files and sets up logging once.
func (c *CLI) AfterApply(g *Global) error {
	loaded := config.LoadEnv()

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	} else if raw := os.Getenv(LogLevelEnv); raw != "" {
		level = parseLevel(raw)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger

	if len(loaded) > 0 {
		slog.Debug("Loaded environment files", slog.Any("files", loaded))
	}
	return nil
}

var logLevels = normalization.NewNormalizer("log level", map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

func parseLevel(raw string) slog.Level {
	return logLevels.Normalize(raw)
}

// ConfigFile returns the configuration path and whether it may be missing.
// Only the implicit default is allowed to be absent.
func (c *CLI) ConfigFile() (path string, optional bool) {
	if c.Config == "" {
		return DefaultConfigFile, true
	}
	return c.Config, false
}
