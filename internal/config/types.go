package config

import "time"

// Config is the top-level texotip configuration, corresponding to .texotip.yml.
// It is loaded once and passed by value; nothing mutates it afterwards.
type Config struct {
	Language        string        `yaml:"language" koanf:"language"`
	Dictionary      string        `yaml:"dictionary" koanf:"dictionary"`
	CaseSensitive   bool          `yaml:"case_sensitive" koanf:"case_sensitive"`
	DefaultTemplate string        `yaml:"default_template" koanf:"default_template"`
	Template        string        `yaml:"template,omitempty" koanf:"template"`
	IDPrefix        string        `yaml:"id_prefix" koanf:"id_prefix"`
	Container       string        `yaml:"container,omitempty" koanf:"container"`
	ShieldTags      []string      `yaml:"shield_tags" koanf:"shield_tags"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	Popover         PopoverConfig `yaml:"popover" koanf:"popover"`
	Site            SiteConfig    `yaml:"site" koanf:"site"`
	Server          ServerConfig  `yaml:"server" koanf:"server"`
}

// PopoverConfig holds the popover placement and behavior settings.
type PopoverConfig struct {
	OffsetV     int    `yaml:"offset_v" koanf:"offset_v"`
	OffsetH     int    `yaml:"offset_h" koanf:"offset_h"`
	ArrowSize   int    `yaml:"arrow_size" koanf:"arrow_size"`
	MinWidth    int    `yaml:"min_width" koanf:"min_width"`
	Padding     int    `yaml:"padding" koanf:"padding"`
	BoxClass    string `yaml:"box_class" koanf:"box_class"`
	ArrowClass  string `yaml:"arrow_class" koanf:"arrow_class"`
	CloseClass  string `yaml:"close_class" koanf:"close_class"`
	ZIndex      int    `yaml:"z_index" koanf:"z_index"`
	LinkActive  bool   `yaml:"link_active" koanf:"link_active"`
	LinkTarget  string `yaml:"link_target" koanf:"link_target"`
	CloseButton bool   `yaml:"close_button" koanf:"close_button"`
}

// SiteConfig controls the static site builder.
type SiteConfig struct {
	DocsDir   string   `yaml:"docs_dir" koanf:"docs_dir"`
	OutputDir string   `yaml:"output_dir" koanf:"output_dir"`
	Title     string   `yaml:"title,omitempty" koanf:"title"`
	Include   []string `yaml:"include" koanf:"include"`
	Exclude   []string `yaml:"exclude,omitempty" koanf:"exclude"`
	Live      bool     `yaml:"live" koanf:"live"` // link the live popover script
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

// RenderTemplate returns the override template when set, otherwise the default.
func (c Config) RenderTemplate() string {
	if c.Template != "" {
		return c.Template
	}
	return c.DefaultTemplate
}
