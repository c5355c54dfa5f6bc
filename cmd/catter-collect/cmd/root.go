package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catter-collect",
	Short: "Read back recorded commands and diagnostics from a catter log directory",
	Long: `catter-collect walks a directory of "<pid>-<tid>" files written by the
preload library's recorder and prints the captured commands and
error-prefixed diagnostics they contain.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(readCmd)
}
