package enrich

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
	"git.home.luguber.info/inful/sassdoc-theme/internal/markdown"
)

var (
	entityTextFields = []string{"description", "deprecated", "output", "content"}
	entityListFields = []string{"parameter", "property", "example", "since", "require"}
	entityObjFields  = []string{"return"}
	entityStrLists   = []string{"throw", "todo"}
)

// Markdown renders known free-text fields into html-prefixed siblings.
type Markdown struct {
	Renderer markdown.Renderer
}

func (Markdown) Name() string    { return PassMarkdown }
func (Markdown) After() []string { return nil }

func (m Markdown) Apply(ctx context.Context, s *State) error {
	if pkg, ok := s.Config["package"].(map[string]any); ok {
		if err := m.fields(pkg, "description"); err != nil {
			return wrapMarkdown(err, "package")
		}
	}

	for _, e := range s.Entities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.entity(e); err != nil {
			return wrapMarkdown(err, e.Anchor())
		}
	}
	return nil
}

func (m Markdown) entity(e docmodel.Entity) error {
	if err := m.fields(e, entityTextFields...); err != nil {
		return err
	}
	for _, key := range entityObjFields {
		if obj, ok := e[key].(map[string]any); ok {
			if err := m.fields(obj, "description"); err != nil {
				return err
			}
		}
	}
	for _, key := range entityListFields {
		items, _ := e[key].([]any)
		for _, item := range items {
			if obj, ok := item.(map[string]any); ok {
				if err := m.fields(obj, "description"); err != nil {
					return err
				}
			}
		}
	}
	for _, key := range entityStrLists {
		items, ok := e[key].([]any)
		if !ok {
			continue
		}
		rendered := make([]any, 0, len(items))
		for _, item := range items {
			src, _ := item.(string)
			if src == "" {
				continue
			}
			out, err := m.Renderer.Render(src)
			if err != nil {
				return err
			}
			rendered = append(rendered, out)
		}
		if len(rendered) > 0 {
			e[htmlKey(key)] = rendered
		}
	}
	return nil
}

// fields renders each non-empty string field of obj in place.
func (m Markdown) fields(obj map[string]any, keys ...string) error {
	for _, key := range keys {
		src, ok := obj[key].(string)
		if !ok || src == "" {
			continue
		}
		out, err := m.Renderer.Render(src)
		if err != nil {
			return err
		}
		obj[htmlKey(key)] = out
	}
	return nil
}

// htmlKey maps "description" to "htmlDescription".
func htmlKey(field string) string {
	if field == "" {
		return "html"
	}
	return "html" + strings.ToUpper(field[:1]) + field[1:]
}

func wrapMarkdown(err error, subject string) error {
	return errors.WrapError(err, errors.CategoryMarkdown, "render markdown").
		Fatal().
		WithContext("subject", subject).
		Build()
}
