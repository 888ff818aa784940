package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/texotip/internal/progress"
	"github.com/ziadkadry99/texotip/internal/server"
	"github.com/ziadkadry99/texotip/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site, the annotate API and live popovers",
	Long: `Starts an HTTP server that serves the generated site, a JSON API for
annotating markup and inspecting the dictionary, and the /live websocket
that drives popovers from the server.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured port")
	serveCmd.Flags().Bool("build", false, "generate the site before serving")
	serveCmd.Flags().Bool("watch", false, "rebuild the site when the docs or the dictionary change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	logger := newLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build, _ := cmd.Flags().GetBool("build")
	watch, _ := cmd.Flags().GetBool("watch")
	if build || watch {
		generator, err := site.NewGenerator(*cfg, nil, progress.NewReporter(), logger)
		if err != nil {
			return err
		}
		report, err := generator.Generate(ctx)
		if err != nil {
			return fmt.Errorf("generating site: %w", err)
		}
		printReport(cfg.Site.OutputDir, report)
	}
	if watch {
		go func() {
			if err := watchSite(ctx, *cfg, logger); err != nil {
				logger.Error("Watcher stopped", "error", err)
			}
		}()
	}

	annotator, err := newAnnotator(*cfg, logger)
	if err != nil {
		return err
	}
	srv := server.New(*cfg, annotator, logger)

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "texotip %s serving %s at http://localhost:%d\n", Version, cfg.Site.OutputDir, cfg.Server.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
