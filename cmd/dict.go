package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/texotip/internal/dictionary"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect the configured dictionary",
}

var dictLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report dictionary entries that will never match or may shadow others",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ref := dictionary.ResolveRef(cfg.Dictionary, cfg.Language)
		entries, err := dictionary.NewLoader(nil).Load(context.Background(), ref)
		if err != nil {
			return err
		}

		warnings := dictionary.Lint(entries)
		for _, w := range warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", w.Kind, w.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, %d warnings\n", ref, len(entries), len(warnings))

		if strict, _ := cmd.Flags().GetBool("strict"); strict && len(warnings) > 0 {
			return fmt.Errorf("dictionary has %d warnings", len(warnings))
		}
		return nil
	},
}

func init() {
	dictLintCmd.Flags().Bool("strict", false, "exit with an error when there are warnings")
	dictCmd.AddCommand(dictLintCmd)
	rootCmd.AddCommand(dictCmd)
}
