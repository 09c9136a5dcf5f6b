package availability

import (
	"encoding/json"
	"testing"
)

func ver(major, minor, patch int) *Version {
	return &Version{Major: major, Minor: minor, Patch: patch}
}

func TestID_StableForEqualInfo(t *testing.T) {
	ix := NewIndex()

	info := Info{Platform: PlatformMacOS, Introduced: ver(12, 0, 0)}
	id1, ok := ix.ID(info, true)
	if !ok {
		t.Fatal("expected id to be assigned")
	}
	// Structurally equal triple, independently constructed.
	id2, ok := ix.ID(Info{Platform: Platform{Name: "macOS", Mask: PlatformMacOS.Mask}, Introduced: ver(12, 0, 0)}, true)
	if !ok {
		t.Fatal("expected id lookup to succeed")
	}
	if id1 != id2 {
		t.Errorf("equal infos got distinct ids: %d vs %d", id1, id2)
	}
}

func TestID_DistinctInfosGetDistinctIDs(t *testing.T) {
	ix := NewIndex()

	infos := []Info{
		{Platform: PlatformMacOS},
		{Platform: PlatformMacOS, Introduced: ver(12, 0, 0)},
		{Platform: PlatformMacOS, Introduced: ver(12, 0, 0), Deprecated: ver(14, 0, 0)},
		{Platform: PlatformIOS, Introduced: ver(12, 0, 0)},
	}
	seen := map[int]bool{}
	for i, info := range infos {
		id, ok := ix.ID(info, true)
		if !ok {
			t.Fatalf("info %d: expected id", i)
		}
		if seen[id] {
			t.Errorf("info %d: id %d already issued", i, id)
		}
		seen[id] = true
	}
	if ix.Len() != len(infos) {
		t.Errorf("expected %d entries, got %d", len(infos), ix.Len())
	}
}

func TestID_NoCreate(t *testing.T) {
	ix := NewIndex()

	if id, ok := ix.ID(Info{Platform: PlatformIOS}, false); ok {
		t.Errorf("lookup without create returned id %d for unseen info", id)
	}
	want, _ := ix.ID(Info{Platform: PlatformIOS}, true)
	got, ok := ix.ID(Info{Platform: PlatformIOS}, false)
	if !ok || got != want {
		t.Errorf("lookup without create: got (%d, %v), want (%d, true)", got, ok, want)
	}
}

func TestInfo_ReverseLookup(t *testing.T) {
	ix := NewIndex()

	orig := Info{Platform: PlatformWatchOS, Introduced: ver(8, 1, 0)}
	id, _ := ix.ID(orig, true)

	got, ok := ix.Info(id)
	if !ok {
		t.Fatal("reverse lookup failed")
	}
	if !got.Platform.Equal(orig.Platform) || got.Introduced == nil || got.Introduced.Compare(*orig.Introduced) != 0 {
		t.Errorf("reverse lookup mismatch: got %+v", got)
	}
	if _, ok := ix.Info(9999); ok {
		t.Error("expected reverse lookup miss for unknown id")
	}
}

func TestPlatformEquality_MaskOnly(t *testing.T) {
	a := Platform{Name: "macOS", Mask: 1}
	b := Platform{Name: "Mac OS X", Mask: 1}
	if !a.Equal(b) {
		t.Error("platforms with identical masks should compare equal regardless of name")
	}
	c := Platform{Name: "macOS", Mask: 2}
	if a.Equal(c) {
		t.Error("platforms with distinct masks should not compare equal")
	}
}

func TestIndex_AnyPlatformNotEnumerable(t *testing.T) {
	ix := NewIndex()
	ix.ID(Info{Platform: PlatformAny}, true)
	ix.ID(Info{Platform: PlatformLinux, Introduced: ver(1, 0, 0)}, true)

	for _, p := range ix.Platforms() {
		if p.Mask == PlatformAny.Mask {
			t.Error("the any platform must not appear in the enumerable platform set")
		}
	}
	if len(ix.Platforms()) != 1 {
		t.Errorf("expected exactly one enumerable platform, got %d", len(ix.Platforms()))
	}
}

func TestSortedVersions(t *testing.T) {
	ix := NewIndex()
	ix.ID(Info{Platform: PlatformIOS, Introduced: ver(15, 0, 0)}, true)
	ix.ID(Info{Platform: PlatformIOS, Introduced: ver(13, 2, 0), Deprecated: ver(16, 0, 0)}, true)
	ix.ID(Info{Platform: PlatformIOS, Introduced: ver(13, 2, 0)}, true)

	got := ix.SortedVersions(PlatformIOS)
	want := []Version{{13, 2, 0}, {15, 0, 0}, {16, 0, 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d versions, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("version %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIndex_JSONRoundTrip(t *testing.T) {
	ix := NewIndex()
	ix.RecordLanguage(LanguageSwift, PlatformMacOS, PlatformIOS)
	ix.RecordLanguage(LanguageObjC, PlatformMacOS)
	id0, _ := ix.ID(Info{Platform: PlatformMacOS, Introduced: ver(11, 0, 0)}, true)
	id1, _ := ix.ID(Info{Platform: PlatformIOS, Introduced: ver(14, 0, 0), Deprecated: ver(17, 0, 0)}, true)
	id2, _ := ix.ID(Info{Platform: PlatformAny}, true)

	data, err := json.Marshal(ix)
	if err != nil {
		t.Fatal(err)
	}

	var restored Index
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatal(err)
	}

	if restored.Len() != ix.Len() {
		t.Fatalf("entry count changed across round trip: %d vs %d", restored.Len(), ix.Len())
	}
	for _, id := range []int{id0, id1, id2} {
		orig, _ := ix.Info(id)
		got, ok := restored.Info(id)
		if !ok {
			t.Fatalf("id %d missing after round trip", id)
		}
		if !got.Platform.Equal(orig.Platform) {
			t.Errorf("id %d: platform mismatch", id)
		}
	}

	// Derived state must be rebuilt, not trusted from the wire.
	gotID, ok := restored.ID(Info{Platform: PlatformIOS, Introduced: ver(14, 0, 0), Deprecated: ver(17, 0, 0)}, false)
	if !ok || gotID != id1 {
		t.Errorf("dedup map not rebuilt: got (%d, %v), want (%d, true)", gotID, ok, id1)
	}
	if got := restored.SortedVersions(PlatformIOS); len(got) != 2 {
		t.Errorf("version sets not rebuilt: %v", got)
	}
	if got := restored.PlatformsForLanguage(LanguageSwift.ID); len(got) != 2 {
		t.Errorf("language platform map lost: %v", got)
	}
}

func TestVersionPacked_RoundTrip(t *testing.T) {
	cases := []Version{
		{0, 0, 0},
		{1, 2, 3},
		{12, 0, 1},
		{255, 255, 255},
		{1024, 7, 9}, // major wider than a byte
	}
	for _, v := range cases {
		if got := VersionFromPacked(v.Packed()); got != v {
			t.Errorf("packed round trip: got %v, want %v", got, v)
		}
	}
}

func TestRegisterLanguage_SlotLimit(t *testing.T) {
	// Custom slots are process-global; register within the shared budget.
	lang, err := RegisterLanguage("Kotlin", "kotlin")
	if err != nil {
		t.Fatal(err)
	}
	if lang.Mask < customLanguageMin || lang.Mask > customLanguageMax {
		t.Errorf("custom language mask %d outside reserved range", lang.Mask)
	}
	again, err := RegisterLanguage("Kotlin", "kotlin")
	if err != nil {
		t.Fatal(err)
	}
	if again != lang {
		t.Error("re-registering the same id should return the existing entry")
	}
	resolved, ok := LanguageWithID("kotlin")
	if !ok || resolved != lang {
		t.Error("registered language not resolvable by id")
	}
}
