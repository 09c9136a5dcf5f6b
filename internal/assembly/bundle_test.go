package assembly

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

func writeBundleFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildBundle(t *testing.T) {
	dir := t.TempDir()
	writeBundleFile(t, dir, "index.md", "# Example\n\nThe example framework.\n")
	writeBundleFile(t, dir, "guides/getting-started.md", "# Getting Started\n\nFirst steps.\n")
	writeBundleFile(t, dir, "guides/advanced.md", "Advanced notes without a heading.\n")
	writeBundleFile(t, dir, "README.txt", "not markdown, not picked up")

	bundle, err := BuildBundle(dir, "com.example.docs")
	if err != nil {
		t.Fatal(err)
	}

	if len(bundle.Pages) != 3 {
		t.Fatalf("assembled %d pages, want 3: %v", len(bundle.Pages), bundle.Pages)
	}

	index, ok := bundle.Pages["/documentation/index"]
	if !ok {
		t.Fatal("index page missing")
	}
	if index.Metadata.Title != "Example" {
		t.Errorf("title = %q, want heading text", index.Metadata.Title)
	}
	if index.Identifier != "doc://com.example.docs/documentation/index" {
		t.Errorf("identifier = %q", index.Identifier)
	}
	if got := index.Abstract.PlainText(); got != "The example framework." {
		t.Errorf("abstract = %q", got)
	}
	if len(render.Headings(index.Content)) != 0 {
		t.Error("level-1 heading should be hoisted out of the content")
	}

	advanced := bundle.Pages["/documentation/guides/advanced"]
	if advanced.Metadata.Title != "advanced" {
		t.Errorf("heading-less page title = %q, want file stem", advanced.Metadata.Title)
	}

	// Root holds the top-level page plus one group for guides/.
	if got := len(bundle.Tree.Root.Children); got != 2 {
		t.Fatalf("root has %d children, want 2", got)
	}
	var group *navigator.Node
	for _, child := range bundle.Tree.Root.Children {
		if child.Item.PageType == navigator.PageTypeGroup {
			group = child
		}
	}
	if group == nil || group.Item.Title != "guides" {
		t.Fatalf("guides group not built: %+v", bundle.Tree.Root.Children)
	}
	if len(group.Children) != 2 {
		t.Errorf("guides group has %d children, want 2", len(group.Children))
	}
	// root + group + 3 pages
	if got := bundle.Tree.CountItems(); got != 5 {
		t.Errorf("tree holds %d items, want 5", got)
	}
}

func TestBuildBundle_Empty(t *testing.T) {
	if _, err := BuildBundle(t.TempDir(), "com.example.docs"); err == nil {
		t.Error("expected error for a bundle with no markdown files")
	}
}
