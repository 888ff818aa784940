package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/texotip/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize texotip configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure texotip for your project and generates a .texotip.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
