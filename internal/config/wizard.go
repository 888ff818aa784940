package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/texotip/internal/dictionary"
)

// detectDictionaries lists language tags with a dictionary file in dir.
func detectDictionaries(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*"+dictionary.FileSuffix))
	var langs []string
	for _, m := range matches {
		langs = append(langs, strings.TrimSuffix(filepath.Base(m), dictionary.FileSuffix))
	}
	return langs
}

// RunWizard runs an interactive configuration wizard and saves the
// resulting Config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to texotip! Let's configure your glossary.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Dictionary source.
	sourcePrompt := promptui.Prompt{
		Label:   "Dictionary directory or URL",
		Default: cfg.Dictionary,
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("dictionary source: %w", err)
	}
	cfg.Dictionary = strings.TrimSpace(source)

	// 2. Language, offering whatever dictionaries already exist.
	if langs := detectDictionaries(cfg.Dictionary); !dictionary.IsURL(cfg.Dictionary) && len(langs) > 0 {
		langPrompt := promptui.Select{
			Label: "Select dictionary language",
			Items: langs,
		}
		_, lang, err := langPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("language selection: %w", err)
		}
		cfg.Language = lang
	} else {
		langPrompt := promptui.Prompt{
			Label:   "Dictionary language",
			Default: cfg.Language,
		}
		lang, err := langPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("language: %w", err)
		}
		cfg.Language = strings.TrimSpace(lang)
	}

	// 3. Matching mode.
	casePrompt := promptui.Select{
		Label: "Term matching",
		Items: []string{
			"case-sensitive   - \"API\" only matches API",
			"case-insensitive - \"API\" also matches api, Api",
		},
	}
	caseIdx, _, err := casePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("matching mode: %w", err)
	}
	cfg.CaseSensitive = caseIdx == 0

	// 4. Closing behavior.
	closePrompt := promptui.Select{
		Label: "How should popovers close",
		Items: []string{
			"close button - popover stays until dismissed",
			"mouse leave  - popover hides when the pointer leaves the term",
		},
	}
	closeIdx, _, err := closePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("close behavior: %w", err)
	}
	cfg.Popover.CloseButton = closeIdx == 0

	// 5. Docs directory for the site builder.
	docsPrompt := promptui.Prompt{
		Label:   "Markdown docs directory",
		Default: cfg.Site.DocsDir,
	}
	docsDir, err := docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	cfg.Site.DocsDir = docsDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ref := dictionary.ResolveRef(cfg.Dictionary, cfg.Language)
	if !dictionary.IsURL(ref) {
		if _, err := os.Stat(ref); os.IsNotExist(err) {
			fmt.Printf("\nNote: no dictionary found at %s yet.\n", ref)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
