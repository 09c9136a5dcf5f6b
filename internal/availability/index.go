package availability

import (
	"fmt"
	"sort"
)

// MaxEntries caps the number of distinct availability triples one index can
// hold. Item records store availability ids in a fixed-width field, so
// blowing past this is a configuration error, not something to recover from.
const MaxEntries = 65535

// Info is one (platform, introduced, deprecated) availability triple.
// The zero Version pointer means "not specified".
type Info struct {
	Platform   Platform `json:"platform"`
	Introduced *Version `json:"introduced,omitempty"`
	Deprecated *Version `json:"deprecated,omitempty"`
}

// key returns a comparable form of the triple for map-based deduplication.
func (in Info) key() infoKey {
	k := infoKey{mask: in.Platform.Mask}
	if in.Introduced != nil {
		k.hasIntroduced = true
		k.introduced = in.Introduced.Packed()
	}
	if in.Deprecated != nil {
		k.hasDeprecated = true
		k.deprecated = in.Deprecated.Packed()
	}
	return k
}

type infoKey struct {
	mask          uint64
	introduced    uint32
	deprecated    uint32
	hasIntroduced bool
	hasDeprecated bool
}

// Index is a session-scoped deduplicating registry of availability triples.
// It is built incrementally while a bundle's pages are indexed, serialized
// next to the navigator tree, and treated as immutable during reads. It is
// not safe for concurrent mutation.
type Index struct {
	infoByID map[int]Info
	idByInfo map[infoKey]int

	platformByMask map[uint64]Platform
	platformByName map[string]Platform
	platforms      map[uint64]Platform
	languages      map[uint8]Language
	langPlatforms  map[string]map[uint64]Platform
	versionsByMask map[uint64]map[Version]struct{}
}

// NewIndex returns an empty availability index.
func NewIndex() *Index {
	return &Index{
		infoByID:       map[int]Info{},
		idByInfo:       map[infoKey]int{},
		platformByMask: map[uint64]Platform{},
		platformByName: map[string]Platform{},
		platforms:      map[uint64]Platform{},
		languages:      map[uint8]Language{},
		langPlatforms:  map[string]map[uint64]Platform{},
		versionsByMask: map[uint64]map[Version]struct{}{},
	}
}

// ID returns the identifier assigned to info. When create is false and the
// triple has never been seen, it returns (0, false). When create is true a
// fresh id is assigned and the triple is indexed. Panics if the table would
// exceed MaxEntries.
func (ix *Index) ID(info Info, create bool) (int, bool) {
	if len(ix.infoByID) != len(ix.idByInfo) {
		panic(fmt.Sprintf("availability index corrupted: %d infos vs %d ids", len(ix.infoByID), len(ix.idByInfo)))
	}
	key := info.key()
	if id, ok := ix.idByInfo[key]; ok {
		return id, true
	}
	if !create {
		return 0, false
	}
	id := len(ix.infoByID)
	if id >= MaxEntries {
		panic(fmt.Sprintf("availability index overflow: more than %d distinct availability entries", MaxEntries))
	}
	ix.infoByID[id] = info
	ix.idByInfo[key] = id
	ix.indexInfo(info)
	return id, true
}

// Info is the reverse lookup of ID.
func (ix *Index) Info(id int) (Info, bool) {
	info, ok := ix.infoByID[id]
	return info, ok
}

// Len returns the number of distinct triples stored.
func (ix *Index) Len() int {
	return len(ix.infoByID)
}

// RecordLanguage notes that pages exist for lang, and optionally that
// platform is documented in that language.
func (ix *Index) RecordLanguage(lang Language, platforms ...Platform) {
	ix.languages[lang.Mask] = lang
	set, ok := ix.langPlatforms[lang.ID]
	if !ok {
		set = map[uint64]Platform{}
		ix.langPlatforms[lang.ID] = set
	}
	for _, p := range platforms {
		if p.Mask == PlatformAny.Mask || p.Mask == 0 {
			continue
		}
		set[p.Mask] = p
	}
}

// indexInfo updates every derived map for a newly stored triple. Decoding
// replays this over the restored entries instead of persisting derived state.
func (ix *Index) indexInfo(info Info) {
	p := info.Platform
	// "any" is a sentinel, not an enumerable platform.
	if p.Mask != PlatformAny.Mask && p.Mask != 0 {
		ix.platformByMask[p.Mask] = p
		ix.platformByName[p.Name] = p
		ix.platforms[p.Mask] = p
	}
	versions, ok := ix.versionsByMask[p.Mask]
	if !ok {
		versions = map[Version]struct{}{}
		ix.versionsByMask[p.Mask] = versions
	}
	if info.Introduced != nil {
		versions[*info.Introduced] = struct{}{}
	}
	if info.Deprecated != nil {
		versions[*info.Deprecated] = struct{}{}
	}
}

// Platforms returns the observed platforms, sorted by mask for stable output.
func (ix *Index) Platforms() []Platform {
	out := make([]Platform, 0, len(ix.platforms))
	for _, p := range ix.platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mask < out[j].Mask })
	return out
}

// Languages returns the observed interface languages, sorted by mask.
func (ix *Index) Languages() []Language {
	out := make([]Language, 0, len(ix.languages))
	for _, l := range ix.languages {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mask < out[j].Mask })
	return out
}

// PlatformNamed looks up an observed platform by display name.
func (ix *Index) PlatformNamed(name string) (Platform, bool) {
	p, ok := ix.platformByName[name]
	return p, ok
}

// PlatformsForLanguage returns the platforms observed for a language id.
func (ix *Index) PlatformsForLanguage(langID string) []Platform {
	set, ok := ix.langPlatforms[langID]
	if !ok {
		return nil
	}
	out := make([]Platform, 0, len(set))
	for _, p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mask < out[j].Mask })
	return out
}

// Versions returns the set of versions observed for a platform, or false if
// the platform was never indexed. Reporting only.
func (ix *Index) Versions(p Platform) (map[Version]struct{}, bool) {
	versions, ok := ix.versionsByMask[p.Mask]
	return versions, ok
}

// SortedVersions returns the observed versions for a platform in ascending
// order.
func (ix *Index) SortedVersions(p Platform) []Version {
	versions, ok := ix.versionsByMask[p.Mask]
	if !ok {
		return nil
	}
	out := make([]Version, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
