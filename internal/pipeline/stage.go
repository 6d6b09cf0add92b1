package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
)

// StageName identifies a pipeline stage.
type StageName string

const (
	StageLoadTheme        StageName = "load_theme"
	StageLoadData         StageName = "load_data"
	StageBuildContext     StageName = "build_context"
	StageCopyAssets       StageName = "copy_assets"
	StageRenderTemplates  StageName = "render_templates"
	StageWriteSearchIndex StageName = "write_search_index"
)

// Stage is a discrete unit of work in a render.
type Stage func(ctx context.Context, st *State) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Render must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

type namedStage struct {
	name StageName
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage. Warnings are recorded and the run goes on.
func runStages(ctx context.Context, st *State, stages []namedStage, obs Observer) error {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(s.name, err)
			st.Report.recordStage(s.name, 0, se)
			obs.OnStageComplete(st.Report, s.name, 0, se.Kind)
			return se
		}

		obs.OnStageStart(st.Report, s.name)
		start := time.Now()
		err := s.fn(ctx, st)
		dur := time.Since(start)

		var se *StageError
		switch {
		case err == nil:
		case stderrors.As(err, &se):
		case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
			se = newCanceledStageError(s.name, err)
		default:
			se = newFatalStageError(s.name, err)
		}

		st.Report.recordStage(s.name, dur, se)
		kind := StageErrorKind("")
		if se != nil {
			kind = se.Kind
		}
		obs.OnStageComplete(st.Report, s.name, dur, kind)

		if se == nil {
			slog.Debug("Stage complete", logfields.BuildID(st.Report.BuildID), logfields.Stage(string(s.name)),
				logfields.DurationMS(float64(dur.Microseconds())/1000))
			continue
		}
		if se.Kind == StageErrorWarning {
			slog.Warn("Stage completed with warning", logfields.BuildID(st.Report.BuildID),
				logfields.Stage(string(s.name)), logfields.Error(se.Err))
			continue
		}
		return se
	}
	return nil
}
