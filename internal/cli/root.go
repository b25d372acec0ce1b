package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fma",
	Short: "Resolve file-manager context-menu requests",
	Long:  `fma resolves menu-request against the loaded action repository and prints the result, for exercising the pipeline without a file-manager host.`,
}

// Execute runs the fma command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (accepted but ignored: commands always load the default config location)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "debug logging (accepted but ignored)")
}
