// Package pipeline runs a render as a sequence of named stages and reports
// what happened to metrics, render history and notification subscribers.
package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
	"git.home.luguber.info/inful/sassdoc-theme/internal/enrich"
	"git.home.luguber.info/inful/sassdoc-theme/internal/eventstore"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
	"git.home.luguber.info/inful/sassdoc-theme/internal/markdown"
	"git.home.luguber.info/inful/sassdoc-theme/internal/metrics"
	"git.home.luguber.info/inful/sassdoc-theme/internal/notify"
	"git.home.luguber.info/inful/sassdoc-theme/internal/rendercontext"
	"git.home.luguber.info/inful/sassdoc-theme/internal/search"
	"git.home.luguber.info/inful/sassdoc-theme/internal/site"
	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
)

// SearchIndexFile is written next to the rendered pages.
const SearchIndexFile = "search.json"

const defaultNotifyTimeout = 5 * time.Second

// Options configures a Runner.
type Options struct {
	// Theme is a registered theme name or a theme directory.
	Theme string
	// ConfigFile is the user configuration. Empty means no user config.
	ConfigFile string
	// ConfigOptional treats a missing ConfigFile as an empty configuration.
	ConfigOptional bool
	// DataFile holds the entity list. Empty means the "data" key of the
	// user configuration.
	DataFile string
	Dest     string
	WorkDir  string
	// Passes are enabled in addition to the ones the theme asks for.
	Passes []string
	// Markdown is shared across renders so its cache survives rebuilds.
	Markdown markdown.Renderer
	Recorder metrics.Recorder
	Store    eventstore.Store
	Notifier notify.Notifier
	// ReportFile, when set, is written into Dest after each render.
	ReportFile    string
	NotifyTimeout time.Duration
}

// State is carried from stage to stage during one render.
type State struct {
	Report   *Report
	Theme    theme.Theme
	Renderer *site.Renderer
	Defaults map[string]any
	User     map[string]any
	Entities []docmodel.Entity
	Context  *rendercontext.Context
}

// Runner executes renders. It is safe to call Run from one goroutine at a
// time; preview mode serializes calls.
type Runner struct {
	opts     Options
	observer Observer
}

// New returns a Runner for opts.
func New(opts Options) *Runner {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Noop{}
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}

	obs := multiObserver{recorderObserver{rec: opts.Recorder}}
	if opts.Store != nil {
		obs = append(obs, historyObserver{store: opts.Store, dataFile: opts.DataFile})
	}
	obs = append(obs, notifyObserver{notifier: opts.Notifier, timeout: opts.NotifyTimeout})

	return &Runner{opts: opts, observer: obs}
}

// Options returns the runner configuration.
func (r *Runner) Options() Options { return r.opts }

// Run performs one render. trigger describes what started it (cli, watch,
// interval). The report is returned even when the render fails.
func (r *Runner) Run(ctx context.Context, trigger string) (*Report, error) {
	st := &State{Report: newReport(uuid.NewString(), trigger)}
	st.Report.Theme = r.opts.Theme
	st.Report.Dest = r.opts.Dest

	slog.Info("Render started", logfields.BuildID(st.Report.BuildID), logfields.Theme(r.opts.Theme),
		logfields.Output(r.opts.Dest), slog.String("trigger", trigger))
	r.observer.OnBuildStart(st.Report)

	err := runStages(ctx, st, r.stages(), r.observer)
	st.Report.finish()

	if err == nil && r.opts.ReportFile != "" {
		if perr := st.Report.Persist(r.opts.Dest, r.opts.ReportFile); perr != nil {
			slog.Warn("Failed to persist render report", logfields.BuildID(st.Report.BuildID), logfields.Error(perr))
		}
	}

	r.observer.OnBuildComplete(st.Report)

	attrs := []any{
		logfields.BuildID(st.Report.BuildID),
		logfields.Outcome(string(st.Report.Outcome)),
		logfields.Entities(st.Report.Entities),
		logfields.Files(st.Report.Files()),
		logfields.DurationMS(float64(st.Report.Duration().Microseconds()) / 1000),
	}
	if err != nil {
		slog.Error("Render failed", append(attrs, logfields.Error(err))...)
		return st.Report, err
	}
	slog.Info("Render completed", attrs...)
	return st.Report, nil
}

func (r *Runner) stages() []namedStage {
	return []namedStage{
		{StageLoadTheme, r.stageLoadTheme},
		{StageLoadData, r.stageLoadData},
		{StageBuildContext, r.stageBuildContext},
		{StageCopyAssets, r.stageCopyAssets},
		{StageRenderTemplates, r.stageRenderTemplates},
		{StageWriteSearchIndex, r.stageWriteSearchIndex},
	}
}

func (r *Runner) stageLoadTheme(_ context.Context, st *State) error {
	t, err := theme.Resolve(r.opts.Theme)
	if err != nil {
		return err
	}
	renderer, err := site.New(t)
	if err != nil {
		return err
	}
	defaults, err := t.Defaults()
	if err != nil {
		return err
	}
	st.Theme = t
	st.Renderer = renderer
	st.Defaults = defaults
	st.Report.Theme = t.Name()
	return nil
}

func (r *Runner) stageLoadData(_ context.Context, st *State) error {
	user := map[string]any{}
	if r.opts.ConfigFile != "" {
		loaded, err := config.LoadFile(r.opts.ConfigFile, r.opts.ConfigOptional)
		if err != nil {
			return err
		}
		user = loaded
	}
	st.User = user

	if r.opts.DataFile != "" {
		entities, err := docmodel.LoadFile(r.opts.DataFile)
		if err != nil {
			return err
		}
		st.Entities = entities
		return nil
	}

	raw, ok := user[rendercontext.DataKey]
	if !ok {
		st.Entities = []docmodel.Entity{}
		return newWarnStageError(StageLoadData,
			errors.DataError("no entities: pass a data file or set \"data\" in the configuration").
				UserAction().
				Build())
	}
	entities, err := docmodel.FromValue(raw)
	if err != nil {
		return err
	}
	st.Entities = entities
	return nil
}

func (r *Runner) stageBuildContext(ctx context.Context, st *State) error {
	m := st.Theme.Manifest()
	passes := slices.Concat(m.Passes, r.opts.Passes)
	rc, err := rendercontext.Build(ctx, st.Defaults, st.User, st.Entities, rendercontext.Options{
		Dest:      r.opts.Dest,
		MergeKeys: m.Profile.Merge,
		Passes:    passes,
		Markdown:  r.opts.Markdown,
		WorkDir:   r.opts.WorkDir,
	})
	if err != nil {
		return err
	}
	st.Context = rc
	st.Report.Entities = len(rc.Entities)
	st.Report.Passes = rc.Passes
	return nil
}

func (r *Runner) stageCopyAssets(ctx context.Context, st *State) error {
	written, err := st.Renderer.CopyAssets(ctx, r.opts.Dest)
	st.Report.Assets = written
	return err
}

func (r *Runner) stageRenderTemplates(ctx context.Context, st *State) error {
	written, err := st.Renderer.RenderTemplates(ctx, st.Context, r.opts.Dest)
	st.Report.Pages = written
	return err
}

func (r *Runner) stageWriteSearchIndex(_ context.Context, st *State) error {
	if !slices.Contains(st.Context.Passes, enrich.PassSummary) {
		return nil
	}
	raw, err := search.JSON(search.Documents(st.Context.Entities))
	if err != nil {
		return newWarnStageError(StageWriteSearchIndex, err)
	}
	written, err := site.WriteFile(r.opts.Dest, SearchIndexFile, raw)
	if err != nil {
		return newWarnStageError(StageWriteSearchIndex, err)
	}
	st.Report.Pages = append(st.Report.Pages, written)
	return nil
}
