package preview

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
	"git.home.luguber.info/inful/sassdoc-theme/internal/pipeline"
)

// buildStatus tracks the latest render for /healthz.
type buildStatus struct {
	mu         sync.RWMutex
	lastErr    error
	last       *pipeline.Report
	goodBuilds int
}

func (s *buildStatus) record(rep *pipeline.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = rep
	s.lastErr = err
	if err == nil {
		s.goodBuilds++
	}
}

func (s *buildStatus) snapshot() (rep *pipeline.Report, goodBuilds int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.goodBuilds, s.lastErr
}

// builder serializes renders. Requests arriving while a render runs
// collapse into a single follow-up render.
type builder struct {
	r      Renderer
	status *buildStatus
	hub    *reloadHub
	reqs   chan string
}

func newBuilder(r Renderer, status *buildStatus, hub *reloadHub) *builder {
	return &builder{r: r, status: status, hub: hub, reqs: make(chan string, 1)}
}

func (b *builder) request(trigger string) {
	select {
	case b.reqs <- trigger:
	default:
	}
}

func (b *builder) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-b.reqs:
			b.build(ctx, trigger)
		}
	}
}

func (b *builder) build(ctx context.Context, trigger string) {
	rep, err := b.r.Run(ctx, trigger)
	b.status.record(rep, err)
	if err != nil {
		slog.Warn("Preview render failed", slog.String("trigger", trigger), logfields.Error(err))
		return
	}
	b.hub.Broadcast(strconv.FormatInt(time.Now().UnixNano(), 10))
}

// debouncer fires fn once events have been quiet for d.
type debouncer struct {
	mu    sync.Mutex
	d     time.Duration
	fn    func()
	timer *time.Timer
}

func newDebouncer(d time.Duration, fn func()) *debouncer {
	return &debouncer{d: d, fn: fn}
}

func (d *debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.d, d.fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
