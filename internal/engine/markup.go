package engine

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// DefaultShieldTags are the pre-existing elements kept out of matching.
var DefaultShieldTags = []string{"a", "img"}

// ErrContainerNotFound is returned when a selector matches no element.
var ErrContainerNotFound = errors.New("container not found")

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// PreexistingElement is an element already present in the container,
// captured exactly as it appears in the source bytes.
type PreexistingElement struct {
	Tag         string
	Offset      int
	OuterMarkup string
}

// rawToken is one tokenizer step with its byte position in the input.
type rawToken struct {
	typ    html.TokenType
	name   string
	attrs  []html.Attribute
	offset int
	size   int
}

// scan walks markup token by token, handing each one to fn with its exact
// byte range. Tag names and attributes are only decoded for tags. It returns
// the number of bytes handed to fn.
func scan(markup string, fn func(t rawToken) bool) int {
	z := html.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return offset
		}
		t := rawToken{typ: tt, offset: offset, size: len(z.Raw())}
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken || tt == html.EndTagToken {
			name, hasAttr := z.TagName()
			t.name = string(name)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				t.attrs = append(t.attrs, html.Attribute{Key: string(key), Val: string(val)})
			}
		}
		if !fn(t) {
			return offset
		}
		offset += t.size
	}
}

// FindPreexisting returns every element of the given tags in markup, in
// document order. Nested matches are all reported; an outer element comes
// before the elements inside it.
func FindPreexisting(markup string, tags []string) []PreexistingElement {
	if len(tags) == 0 {
		tags = DefaultShieldTags
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[strings.ToLower(t)] = true
	}

	type openElement struct {
		start int
		depth int
	}
	open := make(map[string]*openElement)
	var found []PreexistingElement

	scan(markup, func(t rawToken) bool {
		if !want[t.name] {
			return true
		}
		switch t.typ {
		case html.StartTagToken, html.SelfClosingTagToken:
			if t.typ == html.SelfClosingTagToken || voidElements[t.name] {
				found = append(found, PreexistingElement{
					Tag:         t.name,
					Offset:      t.offset,
					OuterMarkup: markup[t.offset : t.offset+t.size],
				})
				return true
			}
			if o, ok := open[t.name]; ok {
				o.depth++
				return true
			}
			open[t.name] = &openElement{start: t.offset, depth: 1}
		case html.EndTagToken:
			o, ok := open[t.name]
			if !ok {
				return true
			}
			o.depth--
			if o.depth == 0 {
				found = append(found, PreexistingElement{
					Tag:         t.name,
					Offset:      o.start,
					OuterMarkup: markup[o.start : t.offset+t.size],
				})
				delete(open, t.name)
			}
		}
		return true
	})

	// Unclosed elements run to the end of the input.
	for name, o := range open {
		found = append(found, PreexistingElement{
			Tag:         name,
			Offset:      o.start,
			OuterMarkup: markup[o.start:],
		})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Offset < found[j].Offset })
	return found
}

// Span is a byte range of a page holding a container's inner markup.
type Span struct {
	Start int
	End   int
}

// FindContainer locates the inner markup of the first element matching
// selector: "#id", ".class" or a tag name. An empty selector selects the
// whole input.
func FindContainer(page, selector string) (Span, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return Span{Start: 0, End: len(page)}, nil
	}

	var (
		span    Span
		found   bool
		closed  bool
		tagName string
		depth   int
	)
	scan(page, func(t rawToken) bool {
		if !found {
			if t.typ == html.StartTagToken && !voidElements[t.name] && matchesSelector(t, selector) {
				found = true
				tagName = t.name
				depth = 1
				span.Start = t.offset + t.size
			}
			return true
		}
		switch {
		case t.typ == html.StartTagToken && t.name == tagName:
			depth++
		case t.typ == html.EndTagToken && t.name == tagName:
			depth--
			if depth == 0 {
				span.End = t.offset
				closed = true
				return false
			}
		}
		return true
	})

	if !found {
		return Span{}, ErrContainerNotFound
	}
	if !closed {
		span.End = len(page)
	}
	return span, nil
}

// ReplaceContainer swaps the inner markup at span for inner.
func ReplaceContainer(page string, span Span, inner string) string {
	return page[:span.Start] + inner + page[span.End:]
}

func matchesSelector(t rawToken, selector string) bool {
	switch selector[0] {
	case '#':
		return attr(t.attrs, "id") == selector[1:]
	case '.':
		for _, c := range strings.Fields(attr(t.attrs, "class")) {
			if c == selector[1:] {
				return true
			}
		}
		return false
	default:
		return t.name == strings.ToLower(selector)
	}
}

func attr(attrs []html.Attribute, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
