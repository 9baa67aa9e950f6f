package main

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neboloop/vizaudit/internal/server"
)

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve past audit results over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx, server.Options{
			Port:       flagPort,
			ResultsDir: filepath.Join(flagOutput, "visual-audit-results"),
		})
	},
}

func init() {
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", 8700, "port for the report viewer")
	rootCmd.AddCommand(serveCmd)
}
