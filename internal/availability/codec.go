package availability

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// indexJSON is the interop shape shared with the render pipeline. Only the
// primary id→info map and the observed platform/language sets are persisted;
// every derived lookup map is rebuilt on decode by replaying indexInfo, so a
// decoded index can never disagree with its own entries.
type indexJSON struct {
	Data                map[string]Info       `json:"data"`
	Platforms           []Platform            `json:"platforms"`
	InterfaceLanguages  []Language            `json:"interfaceLanguages"`
	LanguageToPlatforms map[string][]Platform `json:"languageToPlatforms"`
}

// MarshalJSON implements json.Marshaler.
func (ix *Index) MarshalJSON() ([]byte, error) {
	data := make(map[string]Info, len(ix.infoByID))
	for id, info := range ix.infoByID {
		data[strconv.Itoa(id)] = info
	}
	langToPlatforms := make(map[string][]Platform, len(ix.langPlatforms))
	for langID := range ix.langPlatforms {
		langToPlatforms[langID] = ix.PlatformsForLanguage(langID)
	}
	return json.Marshal(indexJSON{
		Data:                data,
		Platforms:           ix.Platforms(),
		InterfaceLanguages:  ix.Languages(),
		LanguageToPlatforms: langToPlatforms,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (ix *Index) UnmarshalJSON(b []byte) error {
	var raw indexJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decoding availability index: %w", err)
	}

	*ix = *NewIndex()

	// Replay entries in id order so ids survive the round trip and derived
	// maps are rebuilt exactly as they were during original indexing.
	ids := make([]int, 0, len(raw.Data))
	byID := make(map[int]Info, len(raw.Data))
	for key, info := range raw.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("decoding availability index: bad entry id %q: %w", key, err)
		}
		ids = append(ids, id)
		byID[id] = info
	}
	sort.Ints(ids)
	for _, id := range ids {
		info := byID[id]
		ix.infoByID[id] = info
		ix.idByInfo[info.key()] = id
		ix.indexInfo(info)
	}
	if len(ix.infoByID) != len(ix.idByInfo) {
		return fmt.Errorf("decoding availability index: %d entries deduplicated to %d ids", len(ix.infoByID), len(ix.idByInfo))
	}

	for _, p := range raw.Platforms {
		if p.Mask == PlatformAny.Mask || p.Mask == 0 {
			continue
		}
		ix.platforms[p.Mask] = p
		ix.platformByMask[p.Mask] = p
		ix.platformByName[p.Name] = p
	}
	for _, lang := range raw.InterfaceLanguages {
		ix.languages[lang.Mask] = lang
	}
	for langID, platforms := range raw.LanguageToPlatforms {
		set := make(map[uint64]Platform, len(platforms))
		for _, p := range platforms {
			set[p.Mask] = p
		}
		ix.langPlatforms[langID] = set
	}
	return nil
}
