package enrich

import (
	"context"
	"fmt"
)

// GroupName attaches "groupName", a slug to title mapping built from the
// "groups" setting. Unknown slugs map to themselves.
type GroupName struct{}

func (GroupName) Name() string    { return PassGroupName }
func (GroupName) After() []string { return []string{PassMarkdown} }

func (GroupName) Apply(_ context.Context, s *State) error {
	titles, _ := s.Config["groups"].(map[string]any)
	for _, e := range s.Entities {
		names := make(map[string]any, len(e.Groups()))
		for _, slug := range e.Groups() {
			names[slug] = GroupTitle(titles, slug)
		}
		e["groupName"] = names
	}
	return nil
}

// GroupTitle resolves a slug through the groups mapping.
func GroupTitle(titles map[string]any, slug string) string {
	if t, ok := titles[slug]; ok && t != nil {
		if s := fmt.Sprint(t); s != "" {
			return s
		}
	}
	return slug
}
