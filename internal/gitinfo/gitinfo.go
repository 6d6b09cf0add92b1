// Package gitinfo reads the HEAD commit of the repository a project lives in,
// so rendered docs can state which revision they describe.
package gitinfo

import (
	stderrors "errors"

	ggit "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

// ErrNotRepository is returned when no repository encloses the path.
var ErrNotRepository = stderrors.New("not a git repository")

// Info describes the checked-out revision.
type Info struct {
	Commit      string
	ShortCommit string
	// Branch is empty for a detached HEAD.
	Branch string
}

// Map exposes the info under the keys templates use.
func (i Info) Map() map[string]any {
	return map[string]any{
		"commit":      i.Commit,
		"shortCommit": i.ShortCommit,
		"branch":      i.Branch,
	}
}

// Resolve opens the repository containing path (searching parent
// directories) and reads HEAD.
func Resolve(path string) (*Info, error) {
	repo, err := ggit.PlainOpenWithOptions(path, &ggit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, ggit.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, errors.WrapError(err, errors.CategoryGit, "open repository").
			WithContext("path", path).
			Build()
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "read HEAD").
			WithContext("path", path).
			Build()
	}

	commit := ref.Hash().String()
	info := &Info{Commit: commit, ShortCommit: commit}
	if len(commit) > 8 {
		info.ShortCommit = commit[:8]
	}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}
