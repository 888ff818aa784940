// Package annotate runs the page initialization pipeline: load the
// dictionary, locate the container, shield the pre-existing elements,
// substitute and write the result back.
package annotate

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/dictionary"
	"github.com/ziadkadry99/texotip/internal/engine"
)

// Result is an annotated page.
type Result struct {
	Markup   string
	Elements []engine.AnnotatedElement
	Shielded int
	// Skipped is set when the dictionary could not be loaded and the page
	// was returned unchanged.
	Skipped bool
}

// Annotator annotates pages with one configuration.
type Annotator struct {
	cfg    config.Config
	engine *engine.Engine
	loader *dictionary.Loader
	logger *log.Logger
}

// New builds an Annotator. A nil loader uses the default HTTP client and a
// nil logger falls back to the default logger.
func New(cfg config.Config, loader *dictionary.Loader, logger *log.Logger) (*Annotator, error) {
	eng, err := engine.New(cfg.EngineOptions())
	if err != nil {
		return nil, err
	}
	if loader == nil {
		loader = dictionary.NewLoader(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Annotator{cfg: cfg, engine: eng, loader: loader, logger: logger}, nil
}

// Config returns the configuration the annotator was built with.
func (a *Annotator) Config() config.Config { return a.cfg }

// DictionaryRef is the file path or URL the dictionary is read from.
func (a *Annotator) DictionaryRef() string {
	return dictionary.ResolveRef(a.cfg.Dictionary, a.cfg.Language)
}

// Dictionary loads the configured dictionary within the fetch timeout and
// logs any lint warnings.
func (a *Annotator) Dictionary(ctx context.Context) ([]dictionary.Entry, error) {
	if a.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.FetchTimeout)
		defer cancel()
	}

	ref := a.DictionaryRef()
	entries, err := a.loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	for _, w := range dictionary.Lint(entries) {
		a.logger.Warn(w.Message, "kind", w.Kind, "index", w.Index, "other", w.Other)
	}
	a.logger.Debug("Dictionary loaded", "ref", ref, "entries", len(entries))
	return entries, nil
}

// Annotate loads the dictionary and annotates page. A dictionary that
// cannot be fetched or decoded is logged and the page is returned
// unchanged; an entry without text is an error.
func (a *Annotator) Annotate(ctx context.Context, page string) (*Result, error) {
	entries, err := a.Dictionary(ctx)
	if err != nil {
		var entryErr *dictionary.EntryError
		if errors.As(err, &entryErr) {
			return nil, err
		}
		var fetchErr *dictionary.FetchError
		if errors.As(err, &fetchErr) {
			a.logger.Error("Dictionary fetch failed", "ref", fetchErr.Ref, "status", fetchErr.Status, "body", fetchErr.Body)
		} else {
			a.logger.Error("Dictionary unavailable", "ref", a.DictionaryRef(), "error", err)
		}
		return &Result{Markup: page, Skipped: true}, nil
	}
	return a.AnnotateWith(page, entries)
}

// AnnotateWith annotates page with an already loaded dictionary.
func (a *Annotator) AnnotateWith(page string, entries []dictionary.Entry) (*Result, error) {
	span, err := engine.FindContainer(page, a.cfg.Container)
	if err != nil {
		return nil, fmt.Errorf("locating container %q: %w", a.cfg.Container, err)
	}
	inner := page[span.Start:span.End]

	pre := engine.FindPreexisting(inner, a.cfg.ShieldTags)
	res, err := a.engine.Substitute(inner, pre, entries)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Page annotated", "elements", len(res.Elements), "shielded", res.Shielded)

	return &Result{
		Markup:   engine.ReplaceContainer(page, span, res.Markup),
		Elements: res.Elements,
		Shielded: res.Shielded,
	}, nil
}
