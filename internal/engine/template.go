package engine

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// Placeholder marks where the matched term goes in a render template.
const Placeholder = "@text"

var (
	ErrNoPlaceholder = errors.New("template has no " + Placeholder + " placeholder")
	ErrNoRootElement = errors.New("template has no root element")
)

// ValidateTemplate checks that tmpl can render an annotated element.
func ValidateTemplate(tmpl string) error {
	if !strings.Contains(tmpl, Placeholder) {
		return ErrNoPlaceholder
	}
	if _, ok := rootTag(tmpl); !ok {
		return ErrNoRootElement
	}
	return nil
}

// TemplateClass returns the first class of the template's root element.
// Annotated elements are found again by this class after substitution.
func TemplateClass(tmpl string) string {
	t, ok := rootTag(tmpl)
	if !ok {
		return ""
	}
	classes := strings.Fields(attr(t.attrs, "class"))
	if len(classes) == 0 {
		return ""
	}
	return classes[0]
}

func rootTag(markup string) (rawToken, bool) {
	var (
		root  rawToken
		found bool
	)
	scan(markup, func(t rawToken) bool {
		if t.typ == html.StartTagToken || t.typ == html.SelfClosingTagToken {
			root, found = t, true
			return false
		}
		return true
	})
	return root, found
}

// renderElement fills the template with text and stamps attrs onto its root
// element, overriding any the template already sets. Everything around the
// root start tag is kept as written.
func renderElement(tmpl, text string, attrs []html.Attribute) (string, error) {
	filled := strings.Replace(tmpl, Placeholder, text, 1)
	root, ok := rootTag(filled)
	if !ok {
		return "", ErrNoRootElement
	}

	tok := html.Token{Type: root.typ, Data: root.name, Attr: root.attrs}
	for _, a := range attrs {
		tok.Attr = setAttr(tok.Attr, a.Key, a.Val)
	}
	return filled[:root.offset] + tok.String() + filled[root.offset+root.size:], nil
}

func setAttr(attrs []html.Attribute, key, val string) []html.Attribute {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Val = val
			return attrs
		}
	}
	return append(attrs, html.Attribute{Key: key, Val: val})
}
