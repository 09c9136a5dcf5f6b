package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/docpack/docpack/internal/config"
	"github.com/docpack/docpack/internal/searchindex"
)

var (
	searchBundles []string
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed documentation",
	Example: `  docpack search session
  docpack search "url loading" --bundle com.example.docs --limit 5`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchBundles, "bundle", nil, "restrict the search to these bundle identifiers")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	db, err := searchindex.New(config.DBPath())
	if err != nil {
		log.Fatalf("opening search index: %v", err)
	}
	defer db.Close()

	results, err := db.Search(args[0], searchLimit, searchBundles...)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return
	}
	for _, r := range results {
		fmt.Printf("%s  docpack://%s%s\n    %s\n", r.Title, r.Bundle, r.Path, r.Snippet)
	}
}
