package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Language != "en_GB" {
		t.Errorf("expected default language en_GB, got %q", cfg.Language)
	}
	if !cfg.CaseSensitive {
		t.Error("expected case-sensitive matching by default")
	}
	if cfg.Popover.MinWidth != 250 {
		t.Errorf("expected default min_width 250, got %d", cfg.Popover.MinWidth)
	}
	if !cfg.Popover.CloseButton {
		t.Error("expected close button by default")
	}
	if cfg.TriggerClass() != "tooltip" {
		t.Errorf("expected trigger class tooltip, got %q", cfg.TriggerClass())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.texotip.yml")

	original := DefaultConfig()
	original.Language = "fr_FR"
	original.Dictionary = "https://example.com/glossary.json"
	original.CaseSensitive = false
	original.Template = `<span class="gloss">@text</span>`
	original.Popover.LinkActive = true
	original.Popover.ZIndex = 42
	original.FetchTimeout = 3 * time.Second
	original.Site.Include = []string{"guide/**/*.md", "*.md"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Language != original.Language {
		t.Errorf("language: got %q, want %q", loaded.Language, original.Language)
	}
	if loaded.Dictionary != original.Dictionary {
		t.Errorf("dictionary: got %q, want %q", loaded.Dictionary, original.Dictionary)
	}
	if loaded.CaseSensitive {
		t.Error("case_sensitive: expected false after round-trip")
	}
	if loaded.RenderTemplate() != original.Template {
		t.Errorf("template: got %q, want %q", loaded.RenderTemplate(), original.Template)
	}
	if !loaded.Popover.LinkActive || loaded.Popover.ZIndex != 42 {
		t.Errorf("popover: got %+v", loaded.Popover)
	}
	if loaded.FetchTimeout != 3*time.Second {
		t.Errorf("fetch_timeout: got %v", loaded.FetchTimeout)
	}
	if len(loaded.Site.Include) != 2 || loaded.Site.Include[0] != "guide/**/*.md" {
		t.Errorf("site.include: got %v", loaded.Site.Include)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Dictionary != "data" {
		t.Errorf("expected default dictionary, got %q", cfg.Dictionary)
	}
}

func TestLoadYAMLDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yml")
	if err := os.WriteFile(path, []byte("fetch_timeout: 750ms\npopover:\n  close_button: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FetchTimeout != 750*time.Millisecond {
		t.Errorf("fetch_timeout = %v", cfg.FetchTimeout)
	}
	if cfg.Popover.CloseButton {
		t.Error("expected close_button false")
	}
	// Untouched nested fields keep their defaults.
	if cfg.Popover.BoxClass != "texotip-box" {
		t.Errorf("box_class = %q", cfg.Popover.BoxClass)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("TEXOTIP_LANGUAGE", "de_DE")
	t.Setenv("TEXOTIP_POPOVER__MIN_WIDTH", "320")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Language != "de_DE" {
		t.Errorf("env override failed: got %q", loaded.Language)
	}
	if loaded.Popover.MinWidth != 320 {
		t.Errorf("nested env override failed: got %d", loaded.Popover.MinWidth)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"empty language", func(c *Config) { c.Language = "" }, false},
		{"empty dictionary", func(c *Config) { c.Dictionary = "" }, false},
		{"template without placeholder", func(c *Config) { c.Template = `<a class="x">term</a>` }, false},
		{"template without class", func(c *Config) { c.Template = `<span>@text</span>` }, false},
		{"negative timeout", func(c *Config) { c.FetchTimeout = -time.Second }, false},
		{"negative width", func(c *Config) { c.Popover.MinWidth = -1 }, false},
		{"missing box class", func(c *Config) { c.Popover.BoxClass = "" }, false},
		{"link without target", func(c *Config) { c.Popover.LinkActive = true; c.Popover.LinkTarget = "" }, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CaseSensitive = false
	opts := cfg.EngineOptions()
	if opts.CaseSensitive || opts.Template != DefaultTemplateMarkup || opts.IDPrefix != "texotip" {
		t.Errorf("unexpected engine options: %+v", opts)
	}
}

func TestDetectDictionaries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"en_GB.texotip.json", "fr_FR.texotip.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	langs := detectDictionaries(dir)
	if len(langs) != 2 || langs[0] != "en_GB" || langs[1] != "fr_FR" {
		t.Errorf("unexpected languages: %v", langs)
	}
}
