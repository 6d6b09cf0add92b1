package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags separate words; inline tags like em or code do not.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Li: true, atom.Br: true, atom.Pre: true, atom.Div: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Blockquote: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// PlainText strips tags from an HTML fragment and collapses whitespace.
func PlainText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if blockTags[atom.Lookup(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// Summary returns the first sentence of the fragment's text, truncated to
// maxRunes with an ellipsis.
func Summary(fragment string, maxRunes int) string {
	text := PlainText(fragment)
	if text == "" {
		return ""
	}
	if end := sentenceEnd(text); end > 0 {
		text = text[:end]
	}
	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		runes := []rune(text)
		text = strings.TrimRightFunc(string(runes[:maxRunes-1]), unicode.IsSpace) + "…"
	}
	return text
}

// sentenceEnd returns the byte offset just past the first ". ", "! " or "? ",
// or 0 when the text is a single sentence.
func sentenceEnd(text string) int {
	for i := 0; i+1 < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if text[i+1] == ' ' {
				return i + 1
			}
		}
	}
	return 0
}
