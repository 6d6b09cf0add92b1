// Package eventstore keeps an append-only history of renders in SQLite and
// projects it into per-render summaries for the history command.
package eventstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RenderSummary is the read model for one render.
type RenderSummary struct {
	BuildID     string        `json:"build_id"`
	Theme       string        `json:"theme"`
	Dest        string        `json:"dest"`
	Trigger     string        `json:"trigger,omitempty"`
	Status      string        `json:"status"`
	Outcome     string        `json:"outcome,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Entities    int           `json:"entities"`
	Files       int           `json:"files"`
	Stages      []string      `json:"stages,omitempty"`
	ErrorStage  string        `json:"error_stage,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// HistoryProjection rebuilds render summaries from stored events.
type HistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	renders map[string]*RenderSummary
	maxSize int
}

// NewHistoryProjection creates a projection keeping at most maxSize renders.
func NewHistoryProjection(store Store, maxSize int) *HistoryProjection {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &HistoryProjection{store: store, renders: map[string]*RenderSummary{}, maxSize: maxSize}
}

// Rebuild replays every stored event.
func (p *HistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.renders = map[string]*RenderSummary{}
	for _, e := range events {
		p.applyLocked(e)
	}
	return nil
}

// Apply folds a single event into the projection.
func (p *HistoryProjection) Apply(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(e)
}

func (p *HistoryProjection) applyLocked(e Event) {
	if e.BuildID() == "" {
		return
	}
	s, ok := p.renders[e.BuildID()]
	if !ok {
		s = &RenderSummary{BuildID: e.BuildID(), Status: StatusRunning, StartedAt: e.Timestamp()}
		p.renders[e.BuildID()] = s
	}

	switch e.Type() {
	case TypeRenderStarted:
		var payload RenderStartedPayload
		if decode(e, &payload) {
			s.Theme, s.Dest, s.Trigger = payload.Theme, payload.Dest, payload.Trigger
		}
		s.StartedAt = e.Timestamp()
	case TypeStageCompleted:
		var payload StageCompletedPayload
		if decode(e, &payload) {
			s.Stages = append(s.Stages, payload.Stage)
		}
	case TypeRenderCompleted:
		var payload RenderCompletedPayload
		if decode(e, &payload) {
			s.Outcome, s.Entities, s.Files = payload.Outcome, payload.Entities, payload.Files
			s.Duration = time.Duration(payload.DurationMS) * time.Millisecond
		}
		s.Status = StatusCompleted
		s.CompletedAt = timePtr(e.Timestamp())
	case TypeRenderFailed:
		var payload RenderFailedPayload
		if decode(e, &payload) {
			s.Outcome, s.ErrorStage, s.Error = payload.Outcome, payload.Stage, payload.Error
			s.Duration = time.Duration(payload.DurationMS) * time.Millisecond
		}
		s.Status = StatusFailed
		s.CompletedAt = timePtr(e.Timestamp())
	}
}

// Recent returns up to n renders, newest first. n <= 0 uses the
// projection's maximum.
func (p *HistoryProjection) Recent(n int) []RenderSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]RenderSummary, 0, len(p.renders))
	for _, s := range p.renders {
		cp := *s
		cp.Stages = append([]string(nil), s.Stages...)
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].BuildID > out[j].BuildID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if n <= 0 || n > p.maxSize {
		n = p.maxSize
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Get returns one render summary.
func (p *HistoryProjection) Get(buildID string) (RenderSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.renders[buildID]
	if !ok {
		return RenderSummary{}, false
	}
	return *s, true
}

func decode(e Event, v any) bool {
	if err := json.Unmarshal(e.Payload(), v); err != nil {
		slog.Warn("Skipping undecodable history event",
			slog.String("event_type", e.Type()),
			slog.String("build_id", e.BuildID()),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

func timePtr(t time.Time) *time.Time { return &t }
