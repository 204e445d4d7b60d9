package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wavecrate/server"
)

var rootCmd = &cobra.Command{
	Use:   "wavecrate",
	Short: "WaveCrate is a media catalog service for uploaded audio.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
