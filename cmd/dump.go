package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docpack/docpack/internal/archive"
	"github.com/docpack/docpack/internal/navigator"
)

var dumpPaced bool

var dumpCmd = &cobra.Command{
	Use:   "dump <archive-dir>",
	Short: "Print an archive's navigator tree",
	Example: `  docpack dump ~/.cache/docpack/archives/com.example.docs
  docpack dump ./out/com.example.docs --paced`,
	Args: cobra.ExactArgs(1),
	Run:  runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpPaced, "paced", false, "read the index in time-boxed chunks instead of one shot")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) {
	a, err := archive.Open(args[0])
	if err != nil {
		log.Fatalf("opening archive: %v", err)
	}

	var tree *navigator.Tree
	if dumpPaced {
		tree, err = navigator.ReadPaced(a.NavigatorPath(), cfg.Reader.Chunk, nil)
	} else {
		tree, err = a.Navigator()
	}
	if err != nil {
		log.Fatalf("reading navigator index: %v", err)
	}

	fmt.Printf("%s (%d items)\n", a.BundleIdentifier(), tree.CountItems())
	printNode(tree.Root, 0)
}

func printNode(n *navigator.Node, depth int) {
	line := n.Item.Title
	if n.Item.Path != "" {
		line += "  " + n.Item.Path
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), line)
	for _, child := range n.Children {
		printNode(child, depth+1)
	}
}
