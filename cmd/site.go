package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/dictionary"
	"github.com/ziadkadry99/texotip/internal/progress"
	"github.com/ziadkadry99/texotip/internal/site"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Generate an annotated static documentation site",
	Long: `Renders every Markdown page under the docs directory to HTML and
annotates the page content with glossary popovers. With --watch the site
is rebuilt whenever a page or a local dictionary changes.`,
	RunE: runSite,
}

func init() {
	siteCmd.Flags().String("output", "", "override the output directory")
	siteCmd.Flags().Bool("watch", false, "rebuild when the docs or the dictionary change")
	rootCmd.AddCommand(siteCmd)
}

func runSite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Site.OutputDir = output
	}
	if _, err := os.Stat(cfg.Site.DocsDir); os.IsNotExist(err) {
		return fmt.Errorf("docs directory not found at %s", cfg.Site.DocsDir)
	}

	logger := newLogger()
	generator, err := site.NewGenerator(*cfg, nil, progress.NewReporter(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}
	printReport(cfg.Site.OutputDir, report)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchSite(ctx, *cfg, logger)
	}
	return nil
}

func printReport(outputDir string, report *site.Report) {
	fmt.Printf("Static site generated: %s (%d pages, %d annotations)\n", outputDir, report.Pages, report.Annotations)
	if report.Skipped {
		fmt.Println("Dictionary unavailable: pages were written without annotations")
	}
}

// watchSite rebuilds quietly until ctx is cancelled.
func watchSite(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	generator, err := site.NewGenerator(cfg, nil, progress.Nop{}, logger)
	if err != nil {
		return err
	}

	roots := []string{cfg.Site.DocsDir}
	if !dictionary.IsURL(cfg.Dictionary) {
		roots = append(roots, cfg.Dictionary)
	}
	w, err := site.NewWatcher(roots, cfg.Site.OutputDir, site.DefaultDebounce, logger, func(ctx context.Context) error {
		report, err := generator.Generate(ctx)
		if err != nil {
			return err
		}
		logger.Info("Site rebuilt", "pages", report.Pages, "annotations", report.Annotations)
		return nil
	})
	if err != nil {
		return err
	}

	abs, _ := filepath.Abs(cfg.Site.DocsDir)
	fmt.Fprintf(os.Stderr, "Watching %s for changes, press Ctrl+C to stop\n", abs)
	return w.Run(ctx)
}
