// Package preview renders once, then serves the output and re-renders
// whenever the inputs change or a refresh interval elapses.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
	"git.home.luguber.info/inful/sassdoc-theme/internal/pipeline"
)

const (
	defaultDebounce = 300 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Renderer performs one render. *pipeline.Runner satisfies it.
type Renderer interface {
	Run(ctx context.Context, trigger string) (*pipeline.Report, error)
}

// Options configures a preview session.
type Options struct {
	Dest string
	// Addr is the listen address, e.g. "localhost:8080".
	Addr string
	// Watch lists files and directories whose changes trigger a rebuild.
	Watch []string
	// Interval re-renders periodically when positive.
	Interval time.Duration
	Debounce time.Duration
	// Registry is served at /metrics. Nil disables the endpoint.
	Registry *prometheus.Registry
}

// Run blocks until ctx is canceled.
func Run(ctx context.Context, r Renderer, opts Options) error {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.Addr, err)
	}
	return Serve(ctx, r, opts, ln)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, r Renderer, opts Options, ln net.Listener) error {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	status := &buildStatus{}
	hub := newReloadHub()
	b := newBuilder(r, status, hub)

	// Initial render; a failure is reported at /healthz and the session
	// keeps running so the user can fix the input.
	b.build(ctx, "initial")

	w, err := newWatcher(opts.Watch, opts.Dest)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() { _ = w.Close() }()

	var sched *scheduler
	if opts.Interval > 0 {
		sched, err = newScheduler(opts.Interval, func() { b.request("interval") })
		if err != nil {
			_ = ln.Close()
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Handler:           newHandler(opts.Dest, status, hub, opts.Registry),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Preview server listening", slog.String("url", "http://"+ln.Addr().String()), logfields.Path(opts.Dest))

	go b.loop(ctx)
	trigger := newDebouncer(opts.Debounce, func() { b.request("watch") })
	defer trigger.stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server")
			hub.Shutdown()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("Preview server shutdown error", logfields.Error(err))
			}
			return nil
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("preview server: %w", err)
			}
			serveErr = nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				trigger.fire()
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}
