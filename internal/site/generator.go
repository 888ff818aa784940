package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/texotip/internal/annotate"
	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/dictionary"
	"github.com/ziadkadry99/texotip/internal/live"
	"github.com/ziadkadry99/texotip/internal/progress"
)

// ContentSelector is the container annotated on every generated page when
// no container is configured.
const ContentSelector = ".page-content"

// Asset names written at the root of the output directory.
const (
	StyleFile      = "texotip.css"
	ScriptFile     = "texotip.js"
	TermsIndexFile = "terms.json"
)

// Generator converts a markdown docs tree into an annotated static site.
type Generator struct {
	cfg       config.Config
	annotator *annotate.Annotator
	reporter  progress.Reporter
	logger    *log.Logger
}

// Report summarizes one build.
type Report struct {
	Pages       int
	Annotations int
	Terms       []TermUsage
	Skipped     bool // dictionary unavailable; pages were written unannotated
}

// TermUsage lists the pages a dictionary term was annotated on.
type TermUsage struct {
	Text    string   `json:"text"`
	Content string   `json:"content"`
	URL     string   `json:"url,omitempty"`
	Pages   []string `json:"pages"`
	Count   int      `json:"count"`
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title    string
	SiteName string
	Content  template.HTML
	TreeHTML template.HTML
	BasePath string
	Live     bool
}

// NewGenerator creates a Generator. Pages are annotated inside the
// configured container, or inside ContentSelector when none is set.
func NewGenerator(cfg config.Config, loader *dictionary.Loader, reporter progress.Reporter, logger *log.Logger) (*Generator, error) {
	if cfg.Container == "" {
		cfg.Container = ContentSelector
	}
	if reporter == nil {
		reporter = progress.Nop{}
	}
	if logger == nil {
		logger = log.Default()
	}
	a, err := annotate.New(cfg, loader, logger)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, annotator: a, reporter: reporter, logger: logger}, nil
}

// Generate builds the full site. It loads the dictionary once; when the
// dictionary is unavailable pages are still written, unannotated.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	sc := g.cfg.Site
	mdPaths, assets, err := collect(sc.DocsDir, sc.Include, sc.Exclude)
	if err != nil {
		return nil, err
	}
	if len(mdPaths) == 0 {
		return nil, fmt.Errorf("no markdown files found in %s", sc.DocsDir)
	}

	report := &Report{}
	entries, err := g.annotator.Dictionary(ctx)
	if err != nil {
		var entryErr *dictionary.EntryError
		if errors.As(err, &entryErr) {
			return nil, err
		}
		g.logger.Error("Dictionary unavailable, writing pages unannotated", "ref", g.annotator.DictionaryRef(), "error", err)
		report.Skipped = true
	}

	titles := make(map[string]string, len(mdPaths))
	sources := make(map[string][]byte, len(mdPaths))
	for _, rel := range mdPaths {
		src, err := os.ReadFile(filepath.Join(sc.DocsDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		sources[rel] = src
		titles[rel] = extractTitle(string(src), rel)
	}
	tree := BuildTree(mdPaths, titles)

	if err := os.MkdirAll(sc.OutputDir, 0o755); err != nil {
		return nil, err
	}
	if err := g.writeAssets(); err != nil {
		return nil, err
	}

	md := newMarkdown()
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	usage := make([]TermUsage, len(entries))
	for i, e := range entries {
		usage[i] = TermUsage{Text: e.Text, Content: e.Content, URL: e.URL, Pages: []string{}}
	}

	g.reporter.Start(len(mdPaths))
	for i, rel := range mdPaths {
		res, err := g.renderPage(md, tmpl, tree, rel, titles[rel], sources[rel], entries)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rel, err)
		}
		report.Annotations += len(res.Elements)
		page := mdPathToHTML(rel)
		for _, el := range res.Elements {
			u := &usage[el.Entry]
			if u.Count == 0 || u.Pages[len(u.Pages)-1] != page {
				u.Pages = append(u.Pages, page)
			}
			u.Count++
		}
		g.reporter.Update(i+1, rel)
	}
	g.reporter.Finish()

	for _, rel := range assets {
		if err := copyFile(filepath.Join(sc.DocsDir, filepath.FromSlash(rel)), filepath.Join(sc.OutputDir, filepath.FromSlash(rel))); err != nil {
			return nil, fmt.Errorf("copying %s: %w", rel, err)
		}
	}

	report.Pages = len(mdPaths)
	report.Terms = usage
	if err := writeJSON(filepath.Join(sc.OutputDir, TermsIndexFile), usage); err != nil {
		return nil, fmt.Errorf("writing terms index: %w", err)
	}

	g.logger.Info("Site generated", "output", sc.OutputDir, "pages", report.Pages, "annotations", report.Annotations)
	return report, nil
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// renderPage converts one markdown file to an annotated HTML page.
func (g *Generator) renderPage(md goldmark.Markdown, tmpl *template.Template, tree *FileTree, rel, title string, src []byte, entries []dictionary.Entry) (*annotate.Result, error) {
	var body bytes.Buffer
	if err := md.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	htmlRel := mdPathToHTML(rel)
	basePath := strings.Repeat("../", strings.Count(htmlRel, "/"))

	siteName := g.cfg.Site.Title
	if siteName == "" {
		siteName = "Glossary"
	}

	var page bytes.Buffer
	err := tmpl.Execute(&page, pageData{
		Title:    title,
		SiteName: siteName,
		Content:  template.HTML(rewriteMDLinks(body.String())),
		TreeHTML: template.HTML(tree.ToHTML(rel, basePath)),
		BasePath: basePath,
		Live:     g.cfg.Site.Live,
	})
	if err != nil {
		return nil, err
	}

	res, err := g.annotator.AnnotateWith(page.String(), entries)
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(g.cfg.Site.OutputDir, filepath.FromSlash(htmlRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, []byte(res.Markup), 0o644); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) writeAssets() error {
	css := popoverCSS(g.cfg.TriggerClass(), g.cfg.Popover)
	if err := os.WriteFile(filepath.Join(g.cfg.Site.OutputDir, StyleFile), []byte(css), 0o644); err != nil {
		return err
	}
	js := live.ScriptFor(g.cfg.TriggerClass(), g.cfg.Popover.CloseClass)
	return os.WriteFile(filepath.Join(g.cfg.Site.OutputDir, ScriptFile), []byte(js), 0o644)
}

// collect walks docsDir and splits the included files into markdown pages
// and other assets, as slash-separated paths relative to docsDir.
func collect(docsDir string, include, exclude []string) (pages, assets []string, err error) {
	err = filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || MatchesExclude(rel, exclude)) {
				return filepath.SkipDir
			}
			return nil
		}
		if MatchesExclude(rel, exclude) {
			return nil
		}
		if strings.HasSuffix(rel, ".md") {
			if MatchesInclude(rel, include) {
				pages = append(pages, rel)
			}
			return nil
		}
		assets = append(assets, rel)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking docs dir: %w", err)
	}
	return pages, assets, nil
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), ".md")
}

// rewriteMDLinks changes .md links in HTML content to .html links.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(content, `.md#`, `.html#`)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
