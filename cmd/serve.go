package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/docpack/docpack/internal/config"
	"github.com/docpack/docpack/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve indexed documentation over MCP stdio",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	s, err := mcp.NewServer(cfg.ArchiveDir, config.DBPath())
	if err != nil {
		log.Fatalf("starting server: %v", err)
	}
	defer s.Shutdown(cmd.Context())

	if err := s.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
