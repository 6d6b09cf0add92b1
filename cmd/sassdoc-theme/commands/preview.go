package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/metrics"
	"git.home.luguber.info/inful/sassdoc-theme/internal/preview"
	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
)

// PreviewCmd renders, serves the output and re-renders on change.
type PreviewCmd struct {
	RenderFlags `embed:""`

	Addr     string        `name:"addr" default:"localhost:3000" help:"Listen address."`
	Interval time.Duration `name:"interval" help:"Also re-render on this interval (e.g. 5m). Zero disables."`
	NoWatch  bool          `name:"no-watch" help:"Do not watch input files."`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := p.open()
	if err != nil {
		return err
	}
	defer svc.Close()

	reg := metrics.NewRegistry()
	runner := p.runner(root, svc, metrics.NewPrometheusRecorder(reg))

	var watch []string
	if !p.NoWatch {
		watch = p.watchPaths(root)
	}

	fmt.Printf("Serving %s on http://%s\n", p.Dest, p.Addr)
	return preview.Run(ctx, runner, preview.Options{
		Dest:     p.Dest,
		Addr:     p.Addr,
		Watch:    watch,
		Interval: p.Interval,
		Registry: reg,
	})
}

// watchPaths lists the inputs that exist: data file, config file and, for
// themes loaded from disk, the theme directory.
func (p *PreviewCmd) watchPaths(root *CLI) []string {
	var out []string
	if p.Data != "" {
		out = append(out, p.Data)
	}
	if path, optional := root.ConfigFile(); !optional || fileExists(path) {
		out = append(out, path)
	}
	if _, err := theme.Get(p.Theme); err != nil && fileExists(p.Theme) {
		if abs, err := filepath.Abs(p.Theme); err == nil {
			out = append(out, abs)
		}
	}
	return out
}
