package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func appendAll(t *testing.T, store Store, events ...Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, AppendEvent(t.Context(), store, e))
	}
}

func must(e *BaseEvent, err error) Event {
	if err != nil {
		panic(err)
	}
	return e
}

func TestHistoryProjection_Rebuild(t *testing.T) {
	store := newStore(t)
	appendAll(t, store,
		must(NewRenderStarted("ok", RenderStartedPayload{Theme: "sassdoc", Dest: "out", Trigger: "cli"})),
		must(NewStageCompleted("ok", "load_theme", "success", time.Millisecond)),
		must(NewRenderCompleted("ok", RenderCompletedPayload{Outcome: "success", Entities: 4, Files: 3, DurationMS: 12})),
		must(NewRenderStarted("bad", RenderStartedPayload{Theme: "starter", Dest: "out"})),
		must(NewRenderFailed("bad", RenderFailedPayload{Outcome: "failed", Stage: "render_templates", Error: "boom"})),
	)

	p := NewHistoryProjection(store, 10)
	require.NoError(t, p.Rebuild(t.Context()))

	ok, found := p.Get("ok")
	require.True(t, found)
	require.Equal(t, StatusCompleted, ok.Status)
	require.Equal(t, "sassdoc", ok.Theme)
	require.Equal(t, 4, ok.Entities)
	require.Equal(t, 3, ok.Files)
	require.Equal(t, []string{"load_theme"}, ok.Stages)
	require.Equal(t, 12*time.Millisecond, ok.Duration)
	require.NotNil(t, ok.CompletedAt)

	bad, found := p.Get("bad")
	require.True(t, found)
	require.Equal(t, StatusFailed, bad.Status)
	require.Equal(t, "render_templates", bad.ErrorStage)
	require.Equal(t, "boom", bad.Error)

	require.Len(t, p.Recent(0), 2)
	require.Len(t, p.Recent(1), 1)
}

func TestHistoryProjection_ApplyRunning(t *testing.T) {
	p := NewHistoryProjection(newStore(t), 0)
	p.Apply(must(NewRenderStarted("live", RenderStartedPayload{Theme: "sassdoc"})))
	p.Apply(&BaseEvent{EventType: TypeRenderStarted}) // no build id

	s, ok := p.Get("live")
	require.True(t, ok)
	require.Equal(t, StatusRunning, s.Status)
	require.Len(t, p.Recent(5), 1)
}

func TestHistoryProjection_SkipsBadPayload(t *testing.T) {
	p := NewHistoryProjection(newStore(t), 5)
	p.Apply(&BaseEvent{EventBuildID: "x", EventType: TypeRenderCompleted, EventPayload: []byte("{"), EventTimestamp: time.Now()})

	s, ok := p.Get("x")
	require.True(t, ok)
	require.Equal(t, StatusCompleted, s.Status)
	require.Zero(t, s.Files)
}
