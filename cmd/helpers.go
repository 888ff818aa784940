package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/texotip/internal/annotate"
	"github.com/ziadkadry99/texotip/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `texotip init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays free for command output.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "texotip"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newAnnotator builds the annotator shared by the annotate, serve and mcp
// commands.
func newAnnotator(cfg config.Config, logger *log.Logger) (*annotate.Annotator, error) {
	a, err := annotate.New(cfg, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	return a, nil
}
