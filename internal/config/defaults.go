package config

import "time"

// DefaultTemplateMarkup renders a term as a link-styled trigger.
const DefaultTemplateMarkup = `<a href="#" class="tooltip">@text</a>`

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Language:        "en_GB",
		Dictionary:      "data",
		CaseSensitive:   true,
		DefaultTemplate: DefaultTemplateMarkup,
		IDPrefix:        "texotip",
		ShieldTags:      []string{"a", "img"},
		FetchTimeout:    10 * time.Second,
		Popover: PopoverConfig{
			OffsetV:     2,
			OffsetH:     0,
			ArrowSize:   9,
			MinWidth:    250,
			Padding:     20,
			BoxClass:    "texotip-box",
			ArrowClass:  "texotip-arrow",
			CloseClass:  "texotip-close",
			ZIndex:      9999,
			LinkActive:  false,
			LinkTarget:  "_blank",
			CloseButton: true,
		},
		Site: SiteConfig{
			DocsDir:   "docs",
			OutputDir: "site",
			Include:   []string{"**/*.md"},
			Live:      true,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}
