// Package markdown renders the human-authored text fields of documented
// entities to HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/maypok86/otter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown source to an HTML fragment.
type Renderer interface {
	Render(src string) (string, error)
}

// DefaultCacheSize bounds the number of rendered fragments kept in memory.
const DefaultCacheSize = 4096

// Options configures a Goldmark renderer.
type Options struct {
	// CacheSize is the maximum number of cached fragments. Zero disables caching.
	CacheSize int
	// Unsafe keeps raw HTML embedded in descriptions.
	Unsafe bool
}

// DefaultOptions matches what SassDoc authors expect: GFM, inline HTML kept,
// and a shared cache across rebuilds.
func DefaultOptions() Options {
	return Options{CacheSize: DefaultCacheSize, Unsafe: true}
}

// Goldmark is a Renderer backed by goldmark with the GFM extension set.
// It is safe for concurrent use.
type Goldmark struct {
	md    goldmark.Markdown
	cache *otter.Cache[string, string]
}

// NewGoldmark builds a renderer.
func NewGoldmark(opts Options) (*Goldmark, error) {
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	g := &Goldmark{md: goldmark.New(rendererOpts...)}
	if opts.CacheSize > 0 {
		cache, err := otter.MustBuilder[string, string](opts.CacheSize).Build()
		if err != nil {
			return nil, fmt.Errorf("markdown cache: %w", err)
		}
		g.cache = &cache
	}
	return g, nil
}

// Render implements Renderer.
func (g *Goldmark) Render(src string) (string, error) {
	if g.cache != nil {
		if out, ok := g.cache.Get(src); ok {
			return out, nil
		}
	}

	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	out := buf.String()

	if g.cache != nil {
		g.cache.Set(src, out)
	}
	return out, nil
}

// Close releases the cache.
func (g *Goldmark) Close() {
	if g.cache != nil {
		g.cache.Close()
	}
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(src string) (string, error)

// Render implements Renderer.
func (f RendererFunc) Render(src string) (string, error) { return f(src) }
