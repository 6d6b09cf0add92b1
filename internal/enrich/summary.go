package enrich

import (
	"context"

	"git.home.luguber.info/inful/sassdoc-theme/internal/markdown"
)

// DefaultSummaryRunes caps summary length.
const DefaultSummaryRunes = 160

// Summary derives a plain-text first sentence from htmlDescription.
type Summary struct {
	MaxRunes int
}

func (Summary) Name() string    { return PassSummary }
func (Summary) After() []string { return []string{PassMarkdown} }

func (p Summary) Apply(_ context.Context, s *State) error {
	limit := p.MaxRunes
	if limit <= 0 {
		limit = DefaultSummaryRunes
	}
	for _, e := range s.Entities {
		src := e.String("htmlDescription")
		if src == "" {
			continue
		}
		if text := markdown.Summary(src, limit); text != "" {
			e["summary"] = text
		}
	}
	return nil
}
