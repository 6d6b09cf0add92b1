// Package starter is a minimal built-in theme meant to be copied and
// customized. Its settings live under a single "view" key.
package starter

import (
	"embed"
	"io/fs"

	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
)

//go:embed all:files
var files embed.FS

// Name is the registry name.
const Name = "starter"

func init() {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err)
	}
	theme.Register(theme.MustLoad(sub))
}
