package main

import (
	"github.com/spf13/cobra"

	"github.com/petpalace/petpalace/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, queue workers, scheduler, and gRPC health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
