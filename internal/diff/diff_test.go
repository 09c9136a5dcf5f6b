package diff

import (
	"context"
	"testing"

	"github.com/docpack/docpack/internal/archive"
	"github.com/docpack/docpack/internal/render"
)

func buildArchive(t *testing.T, pages map[string]string) *archive.Archive {
	t.Helper()
	dir := t.TempDir()
	w, err := archive.NewWriter(dir, "com.example.docs")
	if err != nil {
		t.Fatal(err)
	}
	for path, body := range pages {
		page := &render.Page{
			SchemaVersion: render.CurrentSchemaVersion,
			Identifier:    "doc://com.example" + path,
			Kind:          "article",
			Metadata:      render.Metadata{Title: path},
			Content: render.BlockContents{
				render.Paragraph{InlineContent: render.InlineContents{render.Text{Text: body}}},
			},
		}
		if _, err := w.AddPage(path, page); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}
	a, err := archive.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestCompare_Identical(t *testing.T) {
	pages := map[string]string{
		"/documentation/example/alpha": "Alpha body.",
		"/documentation/example/beta":  "Beta body.",
	}
	a := buildArchive(t, pages)
	b := buildArchive(t, pages)

	report, err := Compare(context.Background(), a, b, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Identical() {
		t.Errorf("expected identical archives, got %+v", report.Differences)
	}
}

func TestCompare_FindsEveryVerdict(t *testing.T) {
	a := buildArchive(t, map[string]string{
		"/documentation/example/alpha":   "Alpha body.",
		"/documentation/example/changed": "Old text.",
		"/documentation/example/gone":    "Removed later.",
	})
	b := buildArchive(t, map[string]string{
		"/documentation/example/alpha":   "Alpha body.",
		"/documentation/example/changed": "New text.",
		"/documentation/example/added":   "Brand new.",
	})

	report, err := Compare(context.Background(), a, b, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Difference{
		{Path: "/documentation/example/added", Verdict: VerdictOnlyInB},
		{Path: "/documentation/example/changed", Verdict: VerdictChanged},
		{Path: "/documentation/example/gone", Verdict: VerdictOnlyInA},
	}
	if len(report.Differences) != len(want) {
		t.Fatalf("got %d differences, want %d: %+v", len(report.Differences), len(want), report.Differences)
	}
	for i, d := range report.Differences {
		if d != want[i] {
			t.Errorf("difference[%d] = %+v, want %+v", i, d, want[i])
		}
	}
}

func TestCompare_DefaultWorkerBound(t *testing.T) {
	pages := map[string]string{"/documentation/example/alpha": "Alpha body."}
	a := buildArchive(t, pages)
	b := buildArchive(t, pages)

	report, err := Compare(context.Background(), a, b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Identical() {
		t.Errorf("unexpected differences: %+v", report.Differences)
	}
}
