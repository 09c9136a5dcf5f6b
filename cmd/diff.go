package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/docpack/docpack/internal/archive"
	"github.com/docpack/docpack/internal/diff"
)

var diffCmd = &cobra.Command{
	Use:   "diff <archive-a> <archive-b>",
	Short: "Compare two render archives page by page",
	Long: `Compare two render archives page by page. Exits non-zero when any
page differs, so builds can assert that a refactor left the output alone.`,
	Args: cobra.ExactArgs(2),
	Run:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) {
	a, err := archive.Open(args[0])
	if err != nil {
		log.Fatalf("opening %s: %v", args[0], err)
	}
	b, err := archive.Open(args[1])
	if err != nil {
		log.Fatalf("opening %s: %v", args[1], err)
	}

	report, err := diff.Compare(cmd.Context(), a, b, cfg.Diff.Workers)
	if err != nil {
		log.Fatalf("comparing archives: %v", err)
	}

	if report.Identical() {
		fmt.Println("archives are identical")
		return
	}
	for _, d := range report.Differences {
		fmt.Printf("%-10s %s\n", d.Verdict, d.Path)
	}
	os.Exit(1)
}
