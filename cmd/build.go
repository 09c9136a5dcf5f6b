package cmd

import (
	"log"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docpack/docpack/internal/archive"
	"github.com/docpack/docpack/internal/assembly"
	"github.com/docpack/docpack/internal/config"
	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/searchindex"
)

var (
	buildBundleID  string
	buildOutDir    string
	buildOmitPaths bool
)

var buildCmd = &cobra.Command{
	Use:   "build <bundle-dir>",
	Short: "Compile a documentation bundle into a render archive",
	Example: `  docpack build ./Docs --bundle-id com.example.docs
  docpack build ./Docs -o ./out/com.example.docs`,
	Args: cobra.ExactArgs(1),
	Run:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildBundleID, "bundle-id", "", "bundle identifier (default: derived from the directory name)")
	buildCmd.Flags().StringVarP(&buildOutDir, "output", "o", "", "archive output directory (default: <archive_dir>/<bundle-id>)")
	buildCmd.Flags().BoolVar(&buildOmitPaths, "omit-paths", false, "omit per-node paths from the navigator index to shrink it")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	bundleDir := args[0]

	bundleID := buildBundleID
	if bundleID == "" {
		bundleID = strings.ToLower(filepath.Base(filepath.Clean(bundleDir)))
	}
	outDir := buildOutDir
	if outDir == "" {
		outDir = filepath.Join(cfg.ArchiveDir, bundleID)
	}

	bundle, err := assembly.BuildBundle(bundleDir, bundleID)
	if err != nil {
		log.Fatalf("assembling bundle: %v", err)
	}
	slog.Info("assembled bundle", "bundle", bundleID, "pages", len(bundle.Pages))

	w, err := archive.NewWriter(outDir, bundleID)
	if err != nil {
		log.Fatalf("creating archive: %v", err)
	}
	indexPages := make([]searchindex.Page, 0, len(bundle.Pages))
	for pagePath, page := range bundle.Pages {
		if _, err := w.AddPage(pagePath, page); err != nil {
			log.Fatalf("archiving %s: %v", pagePath, err)
		}
		indexPages = append(indexPages, searchindex.Page{
			Path:     pagePath,
			Title:    page.Metadata.Title,
			PageType: assembly.PageType(page.Metadata, page.Kind),
			Content:  page.PlainText(),
		})
	}

	written := 0
	err = w.SetNavigator(bundle.Tree, navigator.WriteOptions{
		OmitPaths:     buildOmitPaths,
		OnNodeWritten: func(*navigator.Node) { written++ },
	})
	if err != nil {
		log.Fatalf("writing navigator index: %v", err)
	}
	if err := w.SetAvailability(bundle.Availability); err != nil {
		log.Fatalf("writing availability index: %v", err)
	}
	if err := w.Finalize(); err != nil {
		log.Fatalf("finalizing archive: %v", err)
	}
	slog.Info("wrote archive", "dir", outDir, "navigatorNodes", written)

	db, err := searchindex.New(config.DBPath())
	if err != nil {
		log.Fatalf("opening search index: %v", err)
	}
	defer db.Close()
	if err := db.ReplaceBundle(bundleID, indexPages); err != nil {
		log.Fatalf("filling search index: %v", err)
	}
	slog.Info("indexed bundle", "bundle", bundleID, "pages", len(indexPages))
}
