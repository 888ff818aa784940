package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [file]",
	Short: "Annotate an HTML file with glossary popovers",
	Long: `Reads an HTML page from a file, or from stdin when no file or "-" is
given, annotates every glossary term inside the container and writes the
result to stdout or --output. When the dictionary cannot be loaded the
page is written unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringP("output", "o", "", "write the annotated page to this file instead of stdout")
	annotateCmd.Flags().String("container", "", "override the container selector (#id, .class or tag)")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("container") {
		cfg.Container, _ = cmd.Flags().GetString("container")
	}

	var in []byte
	if len(args) == 0 || args[0] == "-" {
		in, err = io.ReadAll(cmd.InOrStdin())
	} else {
		in, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	logger := newLogger()
	annotator, err := newAnnotator(*cfg, logger)
	if err != nil {
		return err
	}

	res, err := annotator.Annotate(context.Background(), string(in))
	if err != nil {
		return err
	}
	logger.Info("Annotated", "elements", len(res.Elements), "shielded", res.Shielded, "skipped", res.Skipped)

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), res.Markup)
		return err
	}
	if err := os.WriteFile(output, []byte(res.Markup), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}
