package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/texotip/internal/engine"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "TEXOTIP_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. TEXOTIP_LANGUAGE sets language;
// a double underscore descends into a section, so
// TEXOTIP_POPOVER__MIN_WIDTH sets popover.min_width.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("language is required")
	}
	if c.Dictionary == "" {
		return fmt.Errorf("dictionary is required")
	}

	if err := engine.ValidateTemplate(c.RenderTemplate()); err != nil {
		return fmt.Errorf("invalid template %q: %w", c.RenderTemplate(), err)
	}
	if engine.TemplateClass(c.RenderTemplate()) == "" {
		return fmt.Errorf("template %q needs a class on its root element", c.RenderTemplate())
	}

	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative")
	}

	p := c.Popover
	if p.MinWidth < 0 || p.Padding < 0 || p.ArrowSize < 0 {
		return fmt.Errorf("popover sizes must be non-negative")
	}
	if p.BoxClass == "" || p.ArrowClass == "" || p.CloseClass == "" {
		return fmt.Errorf("popover box_class, arrow_class and close_class are required")
	}
	if p.LinkActive && p.LinkTarget == "" {
		return fmt.Errorf("popover link_target is required when link_active is set")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}

// EngineOptions derives the substitution engine settings.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		CaseSensitive: c.CaseSensitive,
		Template:      c.RenderTemplate(),
		IDPrefix:      c.IDPrefix,
	}
}

// TriggerClass is the class annotated elements are found by.
func (c Config) TriggerClass() string {
	return engine.TemplateClass(c.RenderTemplate())
}
