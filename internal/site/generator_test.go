package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/dictionary"
)

func TestBuildTree(t *testing.T) {
	paths := []string{
		"index.md",
		"guides/setup.md",
		"guides/api.md",
		"reference/http/routes.md",
	}
	tree := BuildTree(paths, map[string]string{"guides/api.md": "The API"})

	if len(tree.Children) != 3 {
		t.Fatalf("root children = %d, want 3", len(tree.Children))
	}
	if tree.Children[0].Name != "guides" || !tree.Children[0].IsDir {
		t.Errorf("first child = %q, want guides dir", tree.Children[0].Name)
	}
	if tree.Children[1].Name != "reference" || !tree.Children[1].IsDir {
		t.Errorf("second child = %q, want reference dir", tree.Children[1].Name)
	}
	if tree.Children[2].Name != "index.md" || tree.Children[2].IsDir {
		t.Errorf("third child = %q, want index.md file", tree.Children[2].Name)
	}

	guides := tree.Children[0]
	if guides.Children[0].Name != "api.md" || guides.Children[0].Title != "The API" {
		t.Errorf("guides first child = %+v", guides.Children[0])
	}
	if guides.Children[1].Path != "guides/setup.md" {
		t.Errorf("guides second child path = %q", guides.Children[1].Path)
	}
}

func TestTreeToHTML(t *testing.T) {
	tree := BuildTree([]string{"index.md", "getting-started/install.md"}, nil)
	out := tree.ToHTML("getting-started/install.md", "../")

	for _, want := range []string{
		`<a href="../index.html">Home</a>`,
		`<li class="dir expanded"><span class="dir-toggle">Getting Started</span>`,
		`<a href="../getting-started/install.html" class="active">install</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree HTML missing %s\n%s", want, out)
		}
	}
}

func TestMdPathToHTML(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"index.md", "index.html"},
		{"guides/api.md", "guides/api.html"},
		{"readme.markdown", "readme.markdown"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := mdPathToHTML(tt.input); got != tt.want {
			t.Errorf("mdPathToHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMatchesIncludeExclude(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		include  bool
		exclude  bool
	}{
		{"index.md", nil, true, false},
		{"guides/api.md", []string{"**/*.md"}, true, true},
		{"guides/api.md", []string{"drafts/**"}, false, false},
		{"drafts/wip.md", []string{"drafts/**"}, true, true},
		{"deep/notes.md", []string{"notes.md"}, true, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.path, tt.patterns); got != tt.include {
			t.Errorf("MatchesInclude(%q, %v) = %v", tt.path, tt.patterns, got)
		}
		if got := MatchesExclude(tt.path, tt.patterns); got != tt.exclude {
			t.Errorf("MatchesExclude(%q, %v) = %v", tt.path, tt.patterns, got)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := *config.DefaultConfig()
	cfg.Dictionary = filepath.Join(root, "data")
	cfg.Site.DocsDir = filepath.Join(root, "docs")
	cfg.Site.OutputDir = filepath.Join(root, "site")
	cfg.Site.Title = "Handbook"
	cfg.Site.Exclude = []string{"drafts/**"}

	writeFile(t, filepath.Join(cfg.Dictionary, "en_GB"+dictionary.FileSuffix),
		`[{"text":"API","content":"Application Programming Interface"},{"text":"Handbook","content":"never in content"}]`)
	writeFile(t, filepath.Join(cfg.Site.DocsDir, "index.md"), "# Welcome\n\nThe API guide is [over here](guides/api.md).\n")
	writeFile(t, filepath.Join(cfg.Site.DocsDir, "guides", "api.md"), "# API\n\nThe API is documented here. Call the API.\n")
	writeFile(t, filepath.Join(cfg.Site.DocsDir, "drafts", "wip.md"), "# WIP\n\nAPI\n")
	writeFile(t, filepath.Join(cfg.Site.DocsDir, "img", "logo.svg"), "<svg/>")
	return cfg
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(t)
	g, err := NewGenerator(cfg, nil, nil, log.New(&strings.Builder{}))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	report, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.Pages != 2 {
		t.Errorf("pages = %d, want 2", report.Pages)
	}
	if report.Skipped {
		t.Error("dictionary should have loaded")
	}

	page, err := os.ReadFile(filepath.Join(cfg.Site.OutputDir, "guides", "api.html"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(page)
	if !strings.Contains(out, `data-content="Application Programming Interface"`) {
		t.Error("API should be annotated in the page content")
	}
	if strings.Contains(out, "never in content") {
		t.Error("the site title is outside the content container and must not be annotated")
	}
	if !strings.Contains(out, `<script src="../texotip.js"></script>`) {
		t.Error("live script should be linked relative to the page")
	}

	index, err := os.ReadFile(filepath.Join(cfg.Site.OutputDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `href="guides/api.html"`) {
		t.Error("markdown links should be rewritten to .html")
	}

	if _, err := os.Stat(filepath.Join(cfg.Site.OutputDir, "drafts", "wip.html")); !os.IsNotExist(err) {
		t.Error("excluded pages must not be rendered")
	}
	if _, err := os.Stat(filepath.Join(cfg.Site.OutputDir, "img", "logo.svg")); err != nil {
		t.Errorf("assets should be copied: %v", err)
	}
	for _, asset := range []string{StyleFile, ScriptFile} {
		if _, err := os.Stat(filepath.Join(cfg.Site.OutputDir, asset)); err != nil {
			t.Errorf("missing %s: %v", asset, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(cfg.Site.OutputDir, TermsIndexFile))
	if err != nil {
		t.Fatal(err)
	}
	var terms []TermUsage
	if err := json.Unmarshal(data, &terms); err != nil {
		t.Fatalf("decoding terms index: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[0].Text != "API" || len(terms[0].Pages) != 2 {
		t.Errorf("API usage = %+v", terms[0])
	}
	if terms[1].Count != 0 {
		t.Errorf("Handbook only occurs outside content, got %+v", terms[1])
	}
}

func TestGenerateWithoutDictionary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dictionary = filepath.Join(t.TempDir(), "missing")
	cfg.Site.Live = false

	g, err := NewGenerator(cfg, nil, nil, log.New(&strings.Builder{}))
	if err != nil {
		t.Fatal(err)
	}
	report, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate should fail open, got %v", err)
	}
	if !report.Skipped || report.Annotations != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	page, err := os.ReadFile(filepath.Join(cfg.Site.OutputDir, "guides", "api.html"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(page), "texotip.js") {
		t.Error("live script should not be linked when disabled")
	}
}

func TestGenerateNoPages(t *testing.T) {
	cfg := *config.DefaultConfig()
	cfg.Site.DocsDir = t.TempDir()
	cfg.Site.OutputDir = t.TempDir()
	g, err := NewGenerator(cfg, nil, nil, log.New(&strings.Builder{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(context.Background()); err == nil {
		t.Error("expected an error for an empty docs dir")
	}
}

func TestWatcherRebuilds(t *testing.T) {
	docs := t.TempDir()
	out := filepath.Join(docs, "site")
	writeFile(t, filepath.Join(out, "index.html"), "old")

	rebuilt := make(chan struct{}, 4)
	w, err := NewWatcher([]string{docs}, out, 20*time.Millisecond, log.New(&strings.Builder{}), func(context.Context) error {
		rebuilt <- struct{}{}
		return nil
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, filepath.Join(docs, "page.md"), "# Page\n")

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after a docs change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
}
