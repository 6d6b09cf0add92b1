// Package enrich holds the passes that turn a merged configuration and raw
// entities into the data templates render: Markdown to HTML, visibility,
// group titles, summaries, VCS info and the grouped index.
//
// Passes declare which passes they must run after; Order resolves a stable
// topological order so that enabling or disabling a pass never reshuffles the
// rest.
package enrich

import (
	"context"
	"fmt"

	"github.com/dominikbraun/graph"

	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
)

// Pass names.
const (
	PassMarkdown  = "markdown"
	PassDisplay   = "display"
	PassGroupName = "groupName"
	PassSummary   = "summary"
	PassGit       = "git"
	PassIndex     = "index"
)

// State is the mutable render context while passes run. Entities are private
// copies owned by the build.
type State struct {
	Config   map[string]any
	Entities []docmodel.Entity
	Index    docmodel.GroupedIndex
}

// Pass is one enrichment step.
type Pass interface {
	Name() string
	// After lists passes that must complete before this one when enabled.
	After() []string
	Apply(ctx context.Context, s *State) error
}

// Order sorts passes so every dependency runs first. Dependencies on passes
// that are not in the list are ignored; ties keep the input order.
func Order(passes []Pass) ([]Pass, error) {
	byName := make(map[string]Pass, len(passes))
	position := make(map[string]int, len(passes))
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for i, p := range passes {
		if _, dup := byName[p.Name()]; dup {
			return nil, fmt.Errorf("duplicate pass %q", p.Name())
		}
		byName[p.Name()] = p
		position[p.Name()] = i
		if err := g.AddVertex(p.Name()); err != nil {
			return nil, fmt.Errorf("add pass %q: %w", p.Name(), err)
		}
	}

	for _, p := range passes {
		for _, dep := range p.After() {
			if _, ok := byName[dep]; !ok {
				continue
			}
			if err := g.AddEdge(dep, p.Name()); err != nil {
				return nil, fmt.Errorf("pass %q after %q: %w", p.Name(), dep, err)
			}
		}
	}

	names, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return position[a] < position[b]
	})
	if err != nil {
		return nil, fmt.Errorf("order passes: %w", err)
	}

	ordered := make([]Pass, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, byName[name])
	}
	return ordered, nil
}

// Run orders and applies passes.
func Run(ctx context.Context, s *State, passes []Pass) error {
	ordered, err := Order(passes)
	if err != nil {
		return err
	}
	for _, p := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Apply(ctx, s); err != nil {
			return fmt.Errorf("%s pass: %w", p.Name(), err)
		}
	}
	return nil
}

// Names returns the pass names in order.
func Names(passes []Pass) []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.Name()
	}
	return out
}
