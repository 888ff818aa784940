package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// baseDelimiter brackets every token key. It is salted when the input
// already contains it so keys can never collide with container content.
const baseDelimiter = "_=_"

// Token stands in for a piece of markup while the working string is being
// rewritten. Key is what the shielded string shows; Value is what the key
// resolves to.
type Token struct {
	Key   string
	Value string
}

// segment is plain text open to matching, frozen markup that is copied
// through untouched, or a token.
type segment struct {
	text   string
	frozen bool
	token  *Token
}

// workspace is the working string of one substitution, held as a list of
// text runs and tokens. Matching only ever looks at text runs, so a pattern
// can neither land inside a token key nor straddle one.
type workspace struct {
	segs  []segment
	delim string
	next  int
}

func newWorkspace(markup string) *workspace {
	delim := baseDelimiter
	for strings.Contains(markup, delim) {
		delim = "_=" + uuid.NewString()[:8] + "=_"
	}
	w := &workspace{delim: delim}
	if markup != "" {
		w.segs = []segment{{text: markup}}
	}
	return w
}

// newToken allocates the next token ordinal.
func (w *workspace) newToken(value string) *Token {
	t := &Token{
		Key:   w.delim + strconv.Itoa(w.next) + w.delim,
		Value: value,
	}
	w.next++
	return t
}

// replaceLiteral swaps every occurrence of literal in the text runs for tok.
// It reports how many occurrences were replaced.
func (w *workspace) replaceLiteral(literal string, tok *Token) int {
	if literal == "" {
		return 0
	}
	count := 0
	out := make([]segment, 0, len(w.segs))
	for _, s := range w.segs {
		if s.token != nil || s.frozen {
			out = append(out, s)
			continue
		}
		rest := s.text
		for {
			i := strings.Index(rest, literal)
			if i < 0 {
				break
			}
			if i > 0 {
				out = append(out, segment{text: rest[:i]})
			}
			out = append(out, segment{token: tok})
			rest = rest[i+len(literal):]
			count++
		}
		if rest != "" {
			out = append(out, segment{text: rest})
		}
	}
	w.segs = out
	return count
}

// replacePattern swaps every match of re in the text runs for a fresh token
// whose value is produced from the matched substring.
func (w *workspace) replacePattern(re *regexp.Regexp, value func(match string, ordinal int) string) []*Token {
	var tokens []*Token
	out := make([]segment, 0, len(w.segs))
	for _, s := range w.segs {
		if s.token != nil || s.frozen {
			out = append(out, s)
			continue
		}
		last := 0
		for _, loc := range re.FindAllStringIndex(s.text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			if loc[0] > last {
				out = append(out, segment{text: s.text[last:loc[0]]})
			}
			ord := w.next
			tok := w.newToken(value(s.text[loc[0]:loc[1]], ord))
			tokens = append(tokens, tok)
			out = append(out, segment{token: tok})
			last = loc[1]
		}
		if last < len(s.text) {
			out = append(out, segment{text: s.text[last:]})
		}
	}
	w.segs = out
	return tokens
}

// freezeMarkup splits the open text runs into tags and text, freezing every
// tag, comment and doctype along with the bodies of script and style
// elements. Only character data stays open to matching.
func (w *workspace) freezeMarkup() {
	out := make([]segment, 0, len(w.segs))
	for _, s := range w.segs {
		if s.token != nil || s.frozen {
			out = append(out, s)
			continue
		}
		rawText := false
		consumed := scan(s.text, func(t rawToken) bool {
			piece := s.text[t.offset : t.offset+t.size]
			frozen := t.typ != html.TextToken || rawText
			if n := len(out); n > 0 && out[n-1].token == nil && out[n-1].frozen == frozen {
				out[n-1].text += piece
			} else {
				out = append(out, segment{text: piece, frozen: frozen})
			}
			switch t.typ {
			case html.StartTagToken:
				rawText = t.name == "script" || t.name == "style"
			case html.EndTagToken:
				rawText = false
			}
			return true
		})
		if consumed < len(s.text) {
			out = append(out, segment{text: s.text[consumed:], frozen: true})
		}
	}
	w.segs = out
}

// shielded renders the working string with token keys in place.
func (w *workspace) shielded() string {
	var b strings.Builder
	for _, s := range w.segs {
		if s.token != nil {
			b.WriteString(s.token.Key)
		} else {
			b.WriteString(s.text)
		}
	}
	return b.String()
}

// resolve renders the working string with every token replaced by its
// value. Values are only written here, so no value is ever rescanned.
func (w *workspace) resolve() string {
	var b strings.Builder
	for _, s := range w.segs {
		if s.token != nil {
			b.WriteString(s.token.Value)
		} else {
			b.WriteString(s.text)
		}
	}
	return b.String()
}
