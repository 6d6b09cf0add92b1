package enrich

import (
	"fmt"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/normalization"
	"git.home.luguber.info/inful/sassdoc-theme/internal/markdown"
)

// Optional lists passes a theme may switch on.
var Optional = []string{PassDisplay, PassGroupName, PassSummary, PassGit}

// passNames accepts any letter case, so "groupname" on the command line
// selects groupName.
var passNames = normalization.NewNormalizer("pass", map[string]string{
	PassMarkdown:  PassMarkdown,
	PassDisplay:   PassDisplay,
	PassGroupName: PassGroupName,
	PassSummary:   PassSummary,
	PassGit:       PassGit,
	PassIndex:     PassIndex,
}, "")

// Deps carries the collaborators passes need.
type Deps struct {
	Markdown markdown.Renderer
	// WorkDir anchors the git pass.
	WorkDir string
}

// Build returns markdown, the requested optional passes and index. Unknown
// names are an error.
func Build(enabled []string, deps Deps) ([]Pass, error) {
	if deps.Markdown == nil {
		return nil, fmt.Errorf("markdown renderer is required")
	}
	passes := []Pass{Markdown{Renderer: deps.Markdown}}
	seen := map[string]bool{}
	for _, raw := range enabled {
		name, err := passNames.Lookup(raw)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		switch name {
		case PassDisplay:
			passes = append(passes, Display{})
		case PassGroupName:
			passes = append(passes, GroupName{})
		case PassSummary:
			passes = append(passes, Summary{})
		case PassGit:
			passes = append(passes, Git{Dir: deps.WorkDir})
		case PassMarkdown, PassIndex:
			// always on
		default:
			// A name registered in passNames without a case here.
			return nil, fmt.Errorf("unknown pass %q", name)
		}
	}
	return append(passes, Index{}), nil
}
