package assembly

import (
	"testing"

	"github.com/docpack/docpack/internal/availability"
	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

func TestProjectItem(t *testing.T) {
	ix := availability.NewIndex()
	meta := render.Metadata{
		Title:      "Session",
		Role:       "symbol",
		SymbolKind: "class",
		Platforms: []render.PlatformAvailability{
			{Name: "macOS", Introduced: "10.15"},
			{Name: "iOS", Introduced: "13.0", Deprecated: "17.0"},
		},
	}

	item := ProjectItem(meta, "symbol", "/documentation/example/session", availability.LanguageSwift, ix)

	if item.PageType != navigator.PageTypeClass {
		t.Errorf("PageType = %d, want class", item.PageType)
	}
	if item.LanguageID != availability.LanguageSwift.Mask {
		t.Errorf("LanguageID = %d", item.LanguageID)
	}
	if item.Title != "Session" {
		t.Errorf("Title = %q", item.Title)
	}
	wantMask := availability.PlatformMacOS.Mask | availability.PlatformIOS.Mask
	if item.PlatformMask != wantMask {
		t.Errorf("PlatformMask = %b, want %b", item.PlatformMask, wantMask)
	}
	if item.Path != "/documentation/example/session" {
		t.Errorf("Path = %q", item.Path)
	}

	if ix.Len() != 2 {
		t.Fatalf("index holds %d triples, want 2", ix.Len())
	}
	info, ok := ix.Info(int(item.AvailabilityID))
	if !ok {
		t.Fatal("item availability id not resolvable")
	}
	if !info.Platform.Equal(availability.PlatformMacOS) {
		t.Errorf("first platform triple = %+v, want macOS", info)
	}
	if info.Introduced == nil || info.Introduced.String() != "10.15.0" {
		t.Errorf("introduced = %v", info.Introduced)
	}

	langs := ix.Languages()
	if len(langs) != 1 || langs[0].ID != "swift" {
		t.Errorf("recorded languages = %v", langs)
	}
	if got := ix.PlatformsForLanguage("swift"); len(got) != 2 {
		t.Errorf("platforms for swift = %v", got)
	}
}

func TestProjectItem_NoPlatformsMeansAny(t *testing.T) {
	ix := availability.NewIndex()
	meta := render.Metadata{Title: "Overview", Role: "article"}

	item := ProjectItem(meta, "article", "/documentation/example/overview", availability.LanguageSwift, ix)

	if item.PlatformMask != availability.PlatformAny.Mask {
		t.Errorf("PlatformMask = %b, want any", item.PlatformMask)
	}
	if item.AvailabilityID != 0 {
		t.Errorf("AvailabilityID = %d, want 0", item.AvailabilityID)
	}
	if ix.Len() != 0 {
		t.Errorf("index holds %d triples, want none", ix.Len())
	}
}

func TestProjectItem_DeduplicatesTriples(t *testing.T) {
	ix := availability.NewIndex()
	meta := render.Metadata{
		Title:      "connect",
		SymbolKind: "method",
		Platforms:  []render.PlatformAvailability{{Name: "macOS", Introduced: "10.15"}},
	}

	a := ProjectItem(meta, "symbol", "/a", availability.LanguageSwift, ix)
	b := ProjectItem(meta, "symbol", "/b", availability.LanguageSwift, ix)

	if a.AvailabilityID != b.AvailabilityID {
		t.Errorf("equal availability got distinct ids: %d vs %d", a.AvailabilityID, b.AvailabilityID)
	}
	if ix.Len() != 1 {
		t.Errorf("index holds %d triples, want 1", ix.Len())
	}
}
