package enrich

import (
	"context"
	stderrors "errors"
	"log/slog"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/gitinfo"
	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
)

// Git merges the HEAD commit into the "git" setting when git.enabled is true.
// Outside a repository the pass logs and leaves the context alone.
type Git struct {
	// Dir is used when git.path is unset.
	Dir     string
	Resolve func(path string) (*gitinfo.Info, error)
}

func (Git) Name() string    { return PassGit }
func (Git) After() []string { return nil }

func (p Git) Apply(_ context.Context, s *State) error {
	settings, _ := s.Config["git"].(map[string]any)
	if enabled, _ := settings["enabled"].(bool); !enabled {
		return nil
	}

	path := p.Dir
	if v, ok := config.Lookup(s.Config, "git", "path"); ok {
		if str, _ := v.(string); str != "" {
			path = str
		}
	}
	if path == "" {
		path = "."
	}

	resolve := p.Resolve
	if resolve == nil {
		resolve = gitinfo.Resolve
	}
	info, err := resolve(path)
	if err != nil {
		if stderrors.Is(err, gitinfo.ErrNotRepository) {
			slog.Warn("git info requested outside a repository", logfields.Path(path))
			return nil
		}
		return err
	}

	merged := config.CloneMap(settings)
	for k, v := range info.Map() {
		merged[k] = v
	}
	s.Config["git"] = merged
	return nil
}
