package pipeline

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/eventstore"
	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
	"git.home.luguber.info/inful/sassdoc-theme/internal/metrics"
	"git.home.luguber.info/inful/sassdoc-theme/internal/notify"
)

// Observer receives render lifecycle callbacks. Implementations must not
// fail the render; problems are logged.
type Observer interface {
	OnBuildStart(r *Report)
	OnStageStart(r *Report, stage StageName)
	OnStageComplete(r *Report, stage StageName, d time.Duration, kind StageErrorKind)
	OnBuildComplete(r *Report)
}

type noopObserver struct{}

func (noopObserver) OnBuildStart(*Report)                                            {}
func (noopObserver) OnStageStart(*Report, StageName)                                 {}
func (noopObserver) OnStageComplete(*Report, StageName, time.Duration, StageErrorKind) {}
func (noopObserver) OnBuildComplete(*Report)                                         {}

type multiObserver []Observer

func (m multiObserver) OnBuildStart(r *Report) {
	for _, o := range m {
		o.OnBuildStart(r)
	}
}

func (m multiObserver) OnStageStart(r *Report, s StageName) {
	for _, o := range m {
		o.OnStageStart(r, s)
	}
}

func (m multiObserver) OnStageComplete(r *Report, s StageName, d time.Duration, k StageErrorKind) {
	for _, o := range m {
		o.OnStageComplete(r, s, d, k)
	}
}

func (m multiObserver) OnBuildComplete(r *Report) {
	for _, o := range m {
		o.OnBuildComplete(r)
	}
}

// recorderObserver adapts Observer callbacks to a metrics.Recorder.
type recorderObserver struct{ rec metrics.Recorder }

func (recorderObserver) OnBuildStart(*Report)            {}
func (recorderObserver) OnStageStart(*Report, StageName) {}

func (o recorderObserver) OnStageComplete(_ *Report, stage StageName, d time.Duration, kind StageErrorKind) {
	o.rec.ObserveStageDuration(string(stage), d)
	o.rec.IncStageResult(string(stage), resultLabel(kind))
}

func (o recorderObserver) OnBuildComplete(r *Report) {
	o.rec.ObserveBuildDuration(r.Duration())
	o.rec.IncBuildOutcome(metrics.OutcomeLabel(r.Outcome))
	if r.Outcome == OutcomeSuccess || r.Outcome == OutcomeWarning {
		o.rec.AddEntitiesRendered(r.Theme, r.Entities)
		o.rec.AddFilesWritten("asset", len(r.Assets))
		o.rec.AddFilesWritten("page", len(r.Pages))
	}
}

func resultLabel(kind StageErrorKind) metrics.ResultLabel {
	switch kind {
	case StageErrorWarning:
		return metrics.ResultWarning
	case StageErrorFatal:
		return metrics.ResultFatal
	case StageErrorCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultSuccess
	}
}

// historyObserver appends render events to the history store.
type historyObserver struct {
	store    eventstore.Store
	dataFile string
}

func (o historyObserver) OnBuildStart(r *Report) {
	o.append(eventstore.NewRenderStarted(r.BuildID, eventstore.RenderStartedPayload{
		Theme:    r.Theme,
		Dest:     r.Dest,
		DataFile: o.dataFile,
		Trigger:  r.Trigger,
	}))
}

func (historyObserver) OnStageStart(*Report, StageName) {}

func (o historyObserver) OnStageComplete(r *Report, stage StageName, d time.Duration, kind StageErrorKind) {
	o.append(eventstore.NewStageCompleted(r.BuildID, string(stage), string(resultLabel(kind)), d))
}

func (o historyObserver) OnBuildComplete(r *Report) {
	if r.Outcome == OutcomeSuccess || r.Outcome == OutcomeWarning {
		o.append(eventstore.NewRenderCompleted(r.BuildID, eventstore.RenderCompletedPayload{
			Outcome:    string(r.Outcome),
			Entities:   r.Entities,
			Files:      r.Files(),
			DurationMS: r.Duration().Milliseconds(),
		}))
		return
	}
	msg := ""
	if len(r.Errors) > 0 {
		msg = r.Errors[0].Error()
	}
	o.append(eventstore.NewRenderFailed(r.BuildID, eventstore.RenderFailedPayload{
		Outcome:    string(r.Outcome),
		Stage:      string(r.FailedStage()),
		Error:      msg,
		DurationMS: r.Duration().Milliseconds(),
	}))
}

func (o historyObserver) append(e *eventstore.BaseEvent, err error) {
	if err == nil {
		// History writes outlive a canceled render.
		err = eventstore.AppendEvent(context.Background(), o.store, e)
	}
	if err != nil {
		slog.Warn("Failed to record render history", logfields.Error(err))
	}
}

// notifyObserver publishes the finished render.
type notifyObserver struct {
	notifier notify.Notifier
	timeout  time.Duration
}

func (notifyObserver) OnBuildStart(*Report)                                            {}
func (notifyObserver) OnStageStart(*Report, StageName)                                 {}
func (notifyObserver) OnStageComplete(*Report, StageName, time.Duration, StageErrorKind) {}

func (o notifyObserver) OnBuildComplete(r *Report) {
	ev := notify.RenderEvent{
		BuildID:    r.BuildID,
		Theme:      r.Theme,
		Dest:       r.Dest,
		Outcome:    string(r.Outcome),
		Entities:   r.Entities,
		Files:      r.Files(),
		DurationMS: r.Duration().Milliseconds(),
		Timestamp:  r.End,
	}
	if len(r.Errors) > 0 {
		ev.Error = r.Errors[0].Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()
	if err := o.notifier.Notify(ctx, ev); err != nil {
		slog.Warn("Failed to publish render notification", logfields.BuildID(r.BuildID), logfields.Error(err))
	}
}
