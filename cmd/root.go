package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "claroflow",
	Short: "Claro Flow demand-routing API server",
	Long: `Claro Flow is the REST API backing the Claro Hub workflow board.
It ingests demand spreadsheets, routes tasks between project assignments
and records the full transition history of every demand.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command (used by tests)
func GetRootCmd() *cobra.Command {
	return rootCmd
}
