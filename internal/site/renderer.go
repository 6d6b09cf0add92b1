package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
	"git.home.luguber.info/inful/sassdoc-theme/internal/rendercontext"
	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
)

// Renderer writes one theme. Templates are parsed once in New and reused.
type Renderer struct {
	theme     theme.Theme
	manifest  theme.Manifest
	ignore    []glob.Glob
	templates []parsedTemplate
}

type parsedTemplate struct {
	def theme.Template
	tpl *template.Template
}

// Result summarizes a render.
type Result struct {
	Assets []string
	Pages  []string
}

// Files is the number of files written.
func (r Result) Files() int { return len(r.Assets) + len(r.Pages) }

// New compiles the theme's ignore globs and parses its templates.
func New(t theme.Theme) (*Renderer, error) {
	m := t.Manifest()
	r := &Renderer{theme: t, manifest: m}

	for _, pattern := range m.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryTheme, "invalid ignore pattern").
				Fatal().
				WithContext("pattern", pattern).
				Build()
		}
		r.ignore = append(r.ignore, g)
	}

	missingKey := "missingkey=default"
	if m.Strict {
		missingKey = "missingkey=error"
	}
	for _, def := range m.Templates {
		name := path.Base(def.Source)
		patterns := append([]string{def.Source}, m.Partials...)
		tpl, err := template.New(name).Funcs(Funcs()).Option(missingKey).ParseFS(t.Files(), patterns...)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryTemplate, "parse template").
				Fatal().
				WithContext("theme", t.Name()).
				WithContext("template", def.Source).
				Build()
		}
		r.templates = append(r.templates, parsedTemplate{def: def, tpl: tpl})
	}
	return r, nil
}

// Render copies assets and then renders every template, stopping at the
// first error.
func (r *Renderer) Render(ctx context.Context, rc *rendercontext.Context, dest string) (Result, error) {
	var res Result
	assets, err := r.CopyAssets(ctx, dest)
	res.Assets = assets
	if err != nil {
		return res, err
	}
	pages, err := r.RenderTemplates(ctx, rc, dest)
	res.Pages = pages
	return res, err
}

// CopyAssets copies the theme's asset directory to dest/<assets>, replacing
// existing files. It returns the written paths relative to dest.
func (r *Renderer) CopyAssets(ctx context.Context, dest string) ([]string, error) {
	root := r.manifest.Assets
	files := r.theme.Files()
	if _, err := fs.Stat(files, root); err != nil {
		slog.Debug("Theme has no asset directory", logfields.Theme(r.theme.Name()), logfields.Path(root))
		return nil, nil
	}

	var written []string
	err := fs.WalkDir(files, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(p, root+"/")
		if r.ignored(rel) {
			return nil
		}
		data, err := fs.ReadFile(files, p)
		if err != nil {
			return err
		}
		if _, err := WriteFile(dest, p, data); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	})
	if err != nil {
		return written, errors.WrapError(err, errors.CategoryFileSystem, "copy theme assets").
			Fatal().
			WithContext("theme", r.theme.Name()).
			WithContext("dest", dest).
			Build()
	}
	return written, nil
}

func (r *Renderer) ignored(rel string) bool {
	base := path.Base(rel)
	for _, g := range r.ignore {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// RenderTemplates executes the manifest templates in order.
func (r *Renderer) RenderTemplates(ctx context.Context, rc *rendercontext.Context, dest string) ([]string, error) {
	ns := rc.Namespace()
	var written []string
	for _, pt := range r.templates {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		start := time.Now()

		var buf bytes.Buffer
		if err := pt.tpl.ExecuteTemplate(&buf, pt.tpl.Name(), ns); err != nil {
			return written, errors.WrapError(err, errors.CategoryTemplate, "render template").
				Fatal().
				WithContext("template", pt.def.Source).
				Build()
		}
		if _, err := WriteFile(dest, pt.def.Output, buf.Bytes()); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "write rendered page").
				Fatal().
				WithContext("output", pt.def.Output).
				Build()
		}
		written = append(written, pt.def.Output)
		slog.Debug("Rendered template",
			logfields.Template(pt.def.Source),
			logfields.Output(pt.def.Output),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	}
	return written, nil
}

// String identifies the renderer in logs.
func (r *Renderer) String() string {
	return fmt.Sprintf("site.Renderer(%s)", r.theme.Name())
}
