package enrich

import (
	"context"
	"slices"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
)

// Display sets a boolean "display" on every entity from the display.access
// and display.alias settings. Hidden entities stay in the data.
type Display struct{}

func (Display) Name() string    { return PassDisplay }
func (Display) After() []string { return []string{PassMarkdown} }

func (Display) Apply(_ context.Context, s *State) error {
	access := stringList(lookup(s.Config, "display", "access"))
	showAliases, _ := lookup(s.Config, "display", "alias").(bool)

	for _, e := range s.Entities {
		visible := slices.Contains(access, e.Access())
		if e.IsAlias() && !showAliases {
			visible = false
		}
		e["display"] = visible
	}
	return nil
}

func lookup(tree map[string]any, path ...string) any {
	v, _ := config.Lookup(tree, path...)
	return v
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{list}
	}
	return nil
}
