package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sassdoc-theme/internal/eventstore"
	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
	"git.home.luguber.info/inful/sassdoc-theme/internal/markdown"
	"git.home.luguber.info/inful/sassdoc-theme/internal/metrics"
	"git.home.luguber.info/inful/sassdoc-theme/internal/notify"
	"git.home.luguber.info/inful/sassdoc-theme/internal/pipeline"
)

// RenderFlags are shared by render and preview.
type RenderFlags struct {
	Data        string   `short:"d" name:"data" help:"SassDoc data file (JSON or YAML). Defaults to the \"data\" key of the configuration." type:"path"`
	Dest        string   `short:"o" name:"dest" default:"./sassdoc" help:"Output directory." type:"path"`
	Theme       string   `short:"t" name:"theme" default:"sassdoc" help:"Built-in theme name or theme directory."`
	Passes      []string `name:"pass" help:"Extra enrichment pass to enable (display, groupName, summary, git). Repeatable."`
	History     string   `name:"history" help:"SQLite database recording render history." type:"path"`
	NatsURL     string   `name:"nats-url" env:"SASSDOC_THEME_NATS_URL" help:"Publish render events to this NATS server."`
	NatsSubject string   `name:"nats-subject" default:"${nats_subject}" help:"Subject for render events."`
	Report      string   `name:"report" help:"Write a JSON render report with this name into the output directory."`
	CacheSize   int      `name:"markdown-cache" default:"4096" help:"Rendered Markdown fragments kept in memory."`
}

// services holds what a runner needs and closes it afterwards.
type services struct {
	markdown *markdown.Goldmark
	store    eventstore.Store
	notifier notify.Notifier
}

func (s *services) Close() {
	if s.markdown != nil {
		s.markdown.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("Failed to close history database", logfields.Error(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			slog.Warn("Failed to close notifier", logfields.Error(err))
		}
	}
}

func (f *RenderFlags) open() (*services, error) {
	svc := &services{notifier: notify.Noop{}}

	opts := markdown.DefaultOptions()
	if f.CacheSize > 0 {
		opts.CacheSize = f.CacheSize
	}
	md, err := markdown.NewGoldmark(opts)
	if err != nil {
		return nil, err
	}
	svc.markdown = md

	if f.History != "" {
		store, err := eventstore.NewSQLiteStore(f.History)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.store = store
	}

	if f.NatsURL != "" {
		n, err := notify.NewNATSNotifier(f.NatsURL, f.NatsSubject)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.notifier = n
	}
	return svc, nil
}

func (f *RenderFlags) runner(root *CLI, svc *services, rec metrics.Recorder) *pipeline.Runner {
	cfgPath, optional := root.ConfigFile()
	wd, _ := os.Getwd()
	return pipeline.New(pipeline.Options{
		Theme:          f.Theme,
		ConfigFile:     cfgPath,
		ConfigOptional: optional,
		DataFile:       f.Data,
		Dest:           f.Dest,
		WorkDir:        wd,
		Passes:         f.Passes,
		Markdown:       svc.markdown,
		Recorder:       rec,
		Store:          svc.store,
		Notifier:       svc.notifier,
		ReportFile:     f.Report,
	})
}

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	RenderFlags `embed:""`
}

func (r *RenderCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := r.open()
	if err != nil {
		return err
	}
	defer svc.Close()

	report, err := r.runner(root, svc, metrics.NoopRecorder{}).Run(ctx, "cli")
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}
