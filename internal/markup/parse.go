package markup

import "strings"

type tokenKind int

const (
	tokText tokenKind = iota
	tokAmp
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string // literal source text
	tag  byte   // 'v' or 'e' for tokOpen/tokClose
}

var tags = []struct {
	open, close string
	tag         byte
}{
	{"<v>", "</v>", 'v'},
	{"<e>", "</e>", 'e'},
}

// tokenize scans s once, emitting text runs, ampersands and tag tokens.
func tokenize(s string) []token {
	var toks []token
	start := 0
	flush := func(end int) {
		if end > start {
			toks = append(toks, token{kind: tokText, text: s[start:end]})
		}
	}
	for i := 0; i < len(s); {
		switch s[i] {
		case '&':
			flush(i)
			toks = append(toks, token{kind: tokAmp, text: "&"})
			i++
			start = i
			continue
		case '<':
			if t, ok := matchTag(s[i:]); ok {
				flush(i)
				toks = append(toks, t)
				i += len(t.text)
				start = i
				continue
			}
		}
		i++
	}
	flush(len(s))
	return toks
}

func matchTag(s string) (token, bool) {
	for _, t := range tags {
		if strings.HasPrefix(s, t.open) {
			return token{kind: tokOpen, text: t.open, tag: t.tag}, true
		}
		if strings.HasPrefix(s, t.close) {
			return token{kind: tokClose, text: t.close, tag: t.tag}, true
		}
	}
	return token{}, false
}

type frame struct {
	tag   byte
	open  string
	frags []Fragment
}

// fold builds the fragment tree. A closing tag only closes the innermost open
// tag of the same name; anything left unbalanced is demoted to literal text.
func fold(toks []token) []Fragment {
	stack := []*frame{{}}
	for _, t := range toks {
		top := stack[len(stack)-1]
		switch t.kind {
		case tokText:
			top.frags = appendText(top.frags, t.text)
		case tokAmp:
			top.frags = append(top.frags, Fragment{Kind: Amp})
		case tokOpen:
			stack = append(stack, &frame{tag: t.tag, open: t.text})
		case tokClose:
			if len(stack) == 1 || top.tag != t.tag {
				top.frags = appendText(top.frags, t.text)
				continue
			}
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			kind := Accent
			if t.tag == 'e' {
				kind = Exempt
			}
			parent.frags = append(parent.frags, Fragment{Kind: kind, Children: top.frags})
		}
	}
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := stack[len(stack)-1]
		parent.frags = appendText(parent.frags, top.open)
		for _, f := range top.frags {
			if f.Kind == Text {
				parent.frags = appendText(parent.frags, f.Text)
			} else {
				parent.frags = append(parent.frags, f)
			}
		}
	}
	return stack[0].frags
}

func appendText(frags []Fragment, s string) []Fragment {
	if n := len(frags); n > 0 && frags[n-1].Kind == Text {
		frags[n-1].Text += s
		return frags
	}
	return append(frags, Fragment{Kind: Text, Text: s})
}
