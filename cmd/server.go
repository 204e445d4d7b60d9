package cmd

import (
	"github.com/spf13/cobra"

	"wavecrate/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the WaveCrate HTTP server",
	Long:  `Start the catalog HTTP server: upload, search, playlist and deletion endpoints plus static serving of uploaded blobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
