package enrich

import (
	"context"

	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
)

// Index builds the group/type index. It runs after every other pass.
type Index struct{}

func (Index) Name() string { return PassIndex }

func (Index) After() []string {
	return []string{PassMarkdown, PassDisplay, PassGroupName, PassSummary, PassGit}
}

func (Index) Apply(_ context.Context, s *State) error {
	s.Index = docmodel.ByGroupAndType(s.Entities)
	return nil
}
