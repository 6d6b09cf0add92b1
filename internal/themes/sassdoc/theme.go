// Package sassdoc is the full-featured built-in theme: grouped navigation,
// visibility filtering, group titles, summaries and a client-side filter.
package sassdoc

import (
	"embed"
	"io/fs"

	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
)

//go:embed all:files
var files embed.FS

// Name is the registry name.
const Name = "sassdoc"

func init() {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err)
	}
	theme.Register(theme.MustLoad(sub))
}
