package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/docpack/docpack/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "docpack",
	Short: "Documentation compiler: build, inspect, and serve render archives",
}

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	}
}
