// Package cmd holds the roadside command line: the API server plus the
// operator commands that have no HTTP surface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "roadside",
	Short:         "Roadside assistance marketplace API",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the command selected by os.Args.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, applicationCmd, catalogCmd)
}
