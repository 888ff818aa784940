// Package engine rewrites markup so that every plain-text occurrence of a
// dictionary term becomes an annotated element, without touching markup
// that was already there.
//
// Substitution runs in three phases over one working string. Pre-existing
// elements are shielded behind tokens first and the remaining tags are
// frozen, then each dictionary entry in list order swaps its matches in
// character data for tokens of its own, and finally every token is resolved
// to its markup in a single pass. Generated markup only enters the string
// during resolution, so a term never matches inside an attribute, a
// pre-existing element or another term's output.
package engine

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/texotip/internal/dictionary"
)

// DefaultIDPrefix prefixes the id of every annotated element.
const DefaultIDPrefix = "texotip"

// Options configure an Engine. They are copied at construction.
type Options struct {
	CaseSensitive bool
	Template      string
	IDPrefix      string
}

// AnnotatedElement is one generated element in the output.
type AnnotatedElement struct {
	ID      string
	Entry   int    // index of the dictionary entry that matched
	Text    string // matched substring, in its original casing
	Content string
	URL     string
	Markup  string
}

// Result is the outcome of one substitution.
type Result struct {
	Markup   string
	Elements []AnnotatedElement
	Shielded int // occurrences of pre-existing markup kept out of matching
}

// Engine performs substitutions with a fixed set of options.
type Engine struct {
	opts Options
}

// New validates opts and returns an Engine.
func New(opts Options) (*Engine, error) {
	if err := ValidateTemplate(opts.Template); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	if opts.IDPrefix == "" {
		opts.IDPrefix = DefaultIDPrefix
	}
	return &Engine{opts: opts}, nil
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options { return e.opts }

// Substitute rewrites markup. preexisting lists the elements to shield, in
// document order; entries is the dictionary in priority order.
func (e *Engine) Substitute(markup string, preexisting []PreexistingElement, entries []dictionary.Entry) (*Result, error) {
	if err := dictionary.Validate(entries); err != nil {
		return nil, err
	}

	w := newWorkspace(markup)
	res := &Result{Shielded: shield(w, preexisting)}
	w.freezeMarkup()

	for i, entry := range entries {
		elems, err := e.annotate(w, i, entry)
		if err != nil {
			return nil, err
		}
		res.Elements = append(res.Elements, elems...)
	}

	res.Markup = w.resolve()
	return res, nil
}

// shield hides every occurrence of each pre-existing element behind one
// token per element.
func shield(w *workspace, preexisting []PreexistingElement) int {
	total := 0
	for _, p := range preexisting {
		tok := w.newToken(p.OuterMarkup)
		total += w.replaceLiteral(p.OuterMarkup, tok)
	}
	return total
}

// annotate replaces each occurrence of entry's text with a token that
// resolves to a rendered element for that occurrence.
func (e *Engine) annotate(w *workspace, index int, entry dictionary.Entry) ([]AnnotatedElement, error) {
	re, err := e.pattern(entry.Text)
	if err != nil {
		return nil, &dictionary.EntryError{Index: index, Err: err}
	}

	var (
		elems     []AnnotatedElement
		renderErr error
	)
	w.replacePattern(re, func(match string, ordinal int) string {
		id := e.opts.IDPrefix + strconv.Itoa(ordinal)
		out, err := renderElement(e.opts.Template, match, []html.Attribute{
			{Key: "id", Val: id},
			{Key: "data-content", Val: entry.Content},
			{Key: "data-url", Val: entry.URL},
		})
		if err != nil && renderErr == nil {
			renderErr = err
		}
		elems = append(elems, AnnotatedElement{
			ID:      id,
			Entry:   index,
			Text:    match,
			Content: entry.Content,
			URL:     entry.URL,
			Markup:  out,
		})
		return out
	})
	if renderErr != nil {
		return nil, fmt.Errorf("rendering entry %d: %w", index, renderErr)
	}
	return elems, nil
}

// pattern compiles text as a literal, never as regular expression syntax.
func (e *Engine) pattern(text string) (*regexp.Regexp, error) {
	expr := regexp.QuoteMeta(text)
	if !e.opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

// Substitute is a one-shot form of Engine.Substitute returning only the
// rewritten markup.
func Substitute(markup string, preexisting []PreexistingElement, entries []dictionary.Entry, caseSensitive bool, template string) (string, error) {
	e, err := New(Options{CaseSensitive: caseSensitive, Template: template})
	if err != nil {
		return "", err
	}
	res, err := e.Substitute(markup, preexisting, entries)
	if err != nil {
		return "", err
	}
	return res.Markup, nil
}
