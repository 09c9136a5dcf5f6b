package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docpack/docpack/internal/availability"
	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

func samplePage(title string) *render.Page {
	return &render.Page{
		SchemaVersion: render.CurrentSchemaVersion,
		Identifier:    "doc://com.example/documentation/example/" + strings.ToLower(title),
		Kind:          "article",
		Metadata:      render.Metadata{Title: title, Role: "article"},
		Content: render.BlockContents{
			render.Paragraph{InlineContent: render.InlineContents{render.Text{Text: "About " + title + "."}}},
		},
	}
}

func TestArchive_WriteOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWriter(dir, "com.example.docs")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddPage("/documentation/example/alpha", samplePage("Alpha")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddPage("/documentation/example/beta", samplePage("Beta")); err != nil {
		t.Fatal(err)
	}

	tree := navigator.NewTree("com.example.docs")
	tree.Root.AddChild(navigator.NewNode(navigator.NewItem(
		navigator.PageTypeArticle, availability.LanguageSwift.Mask,
		"Alpha", availability.PlatformAny.Mask, 0, "/documentation/example/alpha",
	)))
	if err := w.SetNavigator(tree, navigator.WriteOptions{}); err != nil {
		t.Fatal(err)
	}

	ix := availability.NewIndex()
	v := availability.Version{Major: 10, Minor: 15}
	ix.ID(availability.Info{Platform: availability.PlatformMacOS, Introduced: &v}, true)
	if err := w.SetAvailability(ix); err != nil {
		t.Fatal(err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}

	a, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if a.BundleIdentifier() != "com.example.docs" {
		t.Errorf("bundle identifier = %q", a.BundleIdentifier())
	}

	paths := a.Paths()
	if len(paths) != 2 || paths[0] != "/documentation/example/alpha" || paths[1] != "/documentation/example/beta" {
		t.Errorf("Paths() = %v", paths)
	}

	page, err := a.Page("/documentation/example/beta")
	if err != nil {
		t.Fatal(err)
	}
	if page.Metadata.Title != "Beta" {
		t.Errorf("page title = %q", page.Metadata.Title)
	}

	restored, err := a.Navigator()
	if err != nil {
		t.Fatal(err)
	}
	if restored.CountItems() != 2 {
		t.Errorf("navigator holds %d items, want 2", restored.CountItems())
	}

	restoredIx, err := a.Availability()
	if err != nil {
		t.Fatal(err)
	}
	if restoredIx.Len() != 1 {
		t.Errorf("availability index holds %d triples, want 1", restoredIx.Len())
	}
}

func TestArchive_BlobsAreShardedAndCompressed(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "com.example.docs")
	if err != nil {
		t.Fatal(err)
	}
	hash, err := w.AddPage("/documentation/example/alpha", samplePage("Alpha"))
	if err != nil {
		t.Fatal(err)
	}

	p := filepath.Join(dir, "data", hash[:2], hash[2:]+".json.zst")
	raw, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("blob not at sharded path: %v", err)
	}
	// zstd frame magic.
	if len(raw) < 4 || raw[0] != 0x28 || raw[1] != 0xB5 || raw[2] != 0x2F || raw[3] != 0xFD {
		t.Errorf("blob is not zstd compressed: % x", raw[:4])
	}
}

func TestArchive_IdenticalPagesDeduplicate(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "com.example.docs")
	if err != nil {
		t.Fatal(err)
	}

	h1, err := w.AddPage("/a", samplePage("Alpha"))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := w.AddPage("/b", samplePage("Alpha"))
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("identical content hashed differently: %s vs %s", h1, h2)
	}
}

func TestArchive_MissingPage(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "com.example.docs")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}

	a, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Page("/nope"); err == nil {
		t.Error("expected error for unknown page path")
	}
}

func TestOpen_MissingManifest(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error opening a directory with no manifest")
	}
}
