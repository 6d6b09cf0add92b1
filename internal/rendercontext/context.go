// Package rendercontext builds the render context a theme's templates see:
// user configuration merged over theme defaults, enriched entities and the
// group/type index.
package rendercontext

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
	"git.home.luguber.info/inful/sassdoc-theme/internal/enrich"
	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
	"git.home.luguber.info/inful/sassdoc-theme/internal/markdown"
)

// DataKey is the namespace key holding entities and their index.
const DataKey = "data"

// Context is the finished, read-only render context.
type Context struct {
	Dest     string
	Config   map[string]any
	Entities []docmodel.Entity
	Index    docmodel.GroupedIndex
	// Passes records the passes that ran, in order.
	Passes []string
}

// Options controls how a context is built.
type Options struct {
	Dest string
	// MergeKeys are the top-level settings merged key by key with the
	// defaults. Other keys are replaced wholesale by the user's value.
	MergeKeys []string
	// Passes lists the optional enrichment passes to run.
	Passes   []string
	Markdown markdown.Renderer
	WorkDir  string
}

// Build merges user over defaults, copies the entities and runs the
// enrichment passes. Neither defaults, user nor entities are modified.
func Build(ctx context.Context, defaults, user map[string]any, entities []docmodel.Entity, opts Options) (*Context, error) {
	start := time.Now()

	merged := config.MergeProfile(defaults, user, opts.MergeKeys)
	delete(merged, DataKey)

	renderer := opts.Markdown
	if renderer == nil {
		g, err := markdown.NewGoldmark(markdown.DefaultOptions())
		if err != nil {
			return nil, err
		}
		defer g.Close()
		renderer = g
	}

	passes, err := enrich.Build(opts.Passes, enrich.Deps{Markdown: renderer, WorkDir: opts.WorkDir})
	if err != nil {
		return nil, err
	}
	ordered, err := enrich.Order(passes)
	if err != nil {
		return nil, err
	}

	state := &enrich.State{Config: merged, Entities: copyEntities(entities)}
	if err := enrich.Run(ctx, state, ordered); err != nil {
		return nil, err
	}

	slog.Debug("Render context built",
		logfields.Entities(len(state.Entities)),
		slog.Any("passes", enrich.Names(ordered)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	return &Context{
		Dest:     opts.Dest,
		Config:   state.Config,
		Entities: state.Entities,
		Index:    state.Index,
		Passes:   enrich.Names(ordered),
	}, nil
}

// Namespace is the variable tree handed to templates. Configuration keys sit
// at the top level next to "dest" and "data".
func (c *Context) Namespace() map[string]any {
	ns := make(map[string]any, len(c.Config)+2)
	for k, v := range c.Config {
		ns[k] = v
	}
	ns["dest"] = c.Dest
	ns[DataKey] = map[string]any{
		"items":          c.Entities,
		"byGroupAndType": c.Index,
	}
	return ns
}

// GroupTitle resolves a group slug through the "groups" setting.
func (c *Context) GroupTitle(slug string) string {
	titles, _ := c.Config["groups"].(map[string]any)
	return enrich.GroupTitle(titles, slug)
}

func copyEntities(in []docmodel.Entity) []docmodel.Entity {
	out := make([]docmodel.Entity, len(in))
	for i, e := range in {
		out[i] = docmodel.Entity(config.CloneMap(e))
	}
	return out
}
