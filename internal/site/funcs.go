package site

import (
	"encoding/json"
	"fmt"
	"html/template"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sassdoc-theme/internal/enrich"
)

var titleCaser = cases.Title(language.English)

// Funcs are the helpers available to every theme template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"groupTitle": groupTitle,
		"title":      func(s string) string { return titleCaser.String(s) },
		"safeHTML":   safeHTML,
		"slug":       Slugify,
		"json":       toJSON,
		"hasKey":     hasKey,
		"sortedKeys": sortedKeys,
	}
}

func groupTitle(groups any, slug string) string {
	titles, _ := groups.(map[string]any)
	return enrich.GroupTitle(titles, slug)
}

// safeHTML marks rendered Markdown as trusted. nil renders empty.
func safeHTML(v any) template.HTML {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return template.HTML(s) // #nosec G203 -- fragments come from the Markdown renderer.
	case template.HTML:
		return s
	default:
		return template.HTML(template.HTMLEscapeString(fmt.Sprint(s))) // #nosec G203 -- escaped above.
	}
}

// Slugify lowercases s and replaces runs of non-alphanumerics with '-'.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func toJSON(v any) (template.JS, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(out), nil // #nosec G203 -- json.Marshal escapes <, > and &.
}

func hasKey(m any, key string) bool {
	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return false
	}
	return v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())).IsValid()
}

// sortedKeys returns the string keys of any map in ascending order, so
// templates iterate groups and types deterministically.
func sortedKeys(m any) []string {
	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil
	}
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}
