// Package markup renders the small inline markup used in site copy.
//
// Content strings may contain:
//
//	&          an ampersand, rendered in the decorative typeface
//	<v>..</v>  accented text
//	<e>..</e>  text whose ampersands stay plain; <v> still applies inside
//	(-)        a line break; each non-empty segment becomes its own line
//
// Malformed markup never fails: tags without a partner are kept as literal text.
package markup

import (
	"html/template"
	"strings"
)

// LineBreak separates the lines of a content string.
const LineBreak = "(-)"

// Kind identifies a fragment of parsed markup.
type Kind int

const (
	// Text is plain, unstyled text.
	Text Kind = iota
	// Amp is a single ampersand.
	Amp
	// Accent wraps the children of a <v> tag.
	Accent
	// Exempt wraps the children of an <e> tag.
	Exempt
)

// Fragment is a node of parsed markup. Text holds the literal for Text
// fragments; Accent and Exempt fragments carry Children.
type Fragment struct {
	Kind     Kind
	Text     string
	Children []Fragment
}

// Lines splits s on the line-break token, trimming each segment and dropping
// the empty ones. A string without the token is returned as a single line.
func Lines(s string) []string {
	if !strings.Contains(s, LineBreak) {
		return []string{s}
	}
	parts := strings.Split(s, LineBreak)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return lines
}

// Parse turns a single line of markup into fragments.
func Parse(line string) []Fragment {
	return fold(tokenize(line))
}

// Format renders s as HTML. Input containing the line-break token renders
// one <span class="line"> per non-empty segment, in order.
func Format(s string) template.HTML {
	var b strings.Builder
	if !strings.Contains(s, LineBreak) {
		render(&b, Parse(s), false)
		return template.HTML(b.String())
	}
	for _, line := range Lines(s) {
		b.WriteString(`<span class="line">`)
		render(&b, Parse(line), false)
		b.WriteString(`</span>`)
	}
	return template.HTML(b.String())
}

// Plain strips the markup from s, keeping its text. Lines are joined with a space.
func Plain(s string) string {
	lines := Lines(s)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		flatten(&b, Parse(line))
		out = append(out, b.String())
	}
	return strings.Join(out, " ")
}

func render(b *strings.Builder, frags []Fragment, exempt bool) {
	for _, f := range frags {
		switch f.Kind {
		case Text:
			b.WriteString(template.HTMLEscapeString(f.Text))
		case Amp:
			if exempt {
				b.WriteString("&amp;")
			} else {
				b.WriteString(`<span class="amp">&amp;</span>`)
			}
		case Accent:
			b.WriteString(`<span class="accent">`)
			render(b, f.Children, exempt)
			b.WriteString(`</span>`)
		case Exempt:
			render(b, f.Children, true)
		}
	}
}

func flatten(b *strings.Builder, frags []Fragment) {
	for _, f := range frags {
		switch f.Kind {
		case Text:
			b.WriteString(f.Text)
		case Amp:
			b.WriteByte('&')
		default:
			flatten(b, f.Children)
		}
	}
}
