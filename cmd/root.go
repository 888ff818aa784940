package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "texotip",
	Short: "Glossary popovers for HTML pages and documentation sites",
	Long: `Texotip finds the terms of a glossary in your pages and wraps every
occurrence in an annotated element. Hovering an annotated term opens a
popover with its explanation. Existing links and images are never
touched, and terms are never matched inside markup.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".texotip.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
