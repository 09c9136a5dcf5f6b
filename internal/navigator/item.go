package navigator

import (
	"encoding/binary"
	"fmt"
)

// Page types for navigator items. The root page type is written once per
// index, at ordinal 0.
const (
	PageTypeRoot uint8 = iota
	PageTypeArticle
	PageTypeTutorial
	PageTypeSection
	PageTypeSampleCode
	PageTypeFramework
	PageTypeClass
	PageTypeStructure
	PageTypeEnumeration
	PageTypeProtocol
	PageTypeTypeAlias
	PageTypeAssociatedType
	PageTypeFunction
	PageTypeMethod
	PageTypeProperty
	PageTypePropertyListKey
	PageTypeExtension
	PageTypeVariable
	PageTypeTypeMethod
	PageTypeTypeProperty
	PageTypeInitializer
	PageTypeCase
	PageTypeOperator
	PageTypeMacro
	PageTypeSubscript
	PageTypeContainer
	PageTypeGroup
)

// itemFixedSize is the byte length of the fixed-offset portion of a record:
// pageType, languageID, platformMask, availabilityID, then the two length
// prefixes for title and path.
const itemFixedSize = 1 + 1 + 8 + 8 + 8 + 8

// Item is one navigable page entry. It is a write-once value: after
// construction nothing mutates it except the writer, which may temporarily
// clear Path for compact serialization and restore it afterward.
//
// Icon and External ride along in memory but are not part of the binary
// record; they are resolved from page metadata on the read side.
type Item struct {
	PageType       uint8
	LanguageID     uint8
	Title          string
	PlatformMask   uint64
	AvailabilityID uint64
	Path           string
	Icon           string
	External       bool
}

// NewItem builds an item with an explicit path, the form used when building
// a tree for serialization.
func NewItem(pageType, languageID uint8, title string, platformMask, availabilityID uint64, path string) Item {
	return Item{
		PageType:       pageType,
		LanguageID:     languageID,
		Title:          title,
		PlatformMask:   platformMask,
		AvailabilityID: availabilityID,
		Path:           path,
	}
}

// NewPathlessItem builds an item whose path is resolved lazily from a
// separate table; the empty path keeps repeated in-memory processing cheap.
func NewPathlessItem(pageType, languageID uint8, title string, platformMask, availabilityID uint64) Item {
	return NewItem(pageType, languageID, title, platformMask, availabilityID, "")
}

// Bytes serializes the item: fixed-width numeric fields at fixed offsets,
// two u64 length prefixes, then the raw UTF-8 bytes of title and path.
// No terminators, no padding, little-endian.
func (it Item) Bytes() []byte {
	title := []byte(it.Title)
	path := []byte(it.Path)

	buf := make([]byte, itemFixedSize+len(title)+len(path))
	buf[0] = it.PageType
	buf[1] = it.LanguageID
	binary.LittleEndian.PutUint64(buf[2:10], it.PlatformMask)
	binary.LittleEndian.PutUint64(buf[10:18], it.AvailabilityID)
	binary.LittleEndian.PutUint64(buf[18:26], uint64(len(title)))
	binary.LittleEndian.PutUint64(buf[26:34], uint64(len(path)))
	copy(buf[itemFixedSize:], title)
	copy(buf[itemFixedSize+len(title):], path)
	return buf
}

// ItemFromBytes parses a serialized item. A buffer that is too short for its
// own declared lengths is malformed input and returns an error; a cursor
// that does not land exactly on the end of the buffer after both strings
// means the record and the schema disagree, which is an invariant violation,
// not recoverable input.
func ItemFromBytes(buf []byte) (Item, error) {
	if len(buf) < itemFixedSize {
		return Item{}, fmt.Errorf("item record too short: %d bytes, need at least %d", len(buf), itemFixedSize)
	}

	var it Item
	it.PageType = buf[0]
	it.LanguageID = buf[1]
	it.PlatformMask = binary.LittleEndian.Uint64(buf[2:10])
	it.AvailabilityID = binary.LittleEndian.Uint64(buf[10:18])
	titleLen := binary.LittleEndian.Uint64(buf[18:26])
	pathLen := binary.LittleEndian.Uint64(buf[26:34])

	// Subtraction form so a near-max declared length cannot wrap the check.
	cursor := uint64(itemFixedSize)
	if titleLen > uint64(len(buf))-cursor || pathLen > uint64(len(buf))-cursor-titleLen {
		return Item{}, fmt.Errorf("item record truncated: declares %d title + %d path bytes in a %d byte buffer", titleLen, pathLen, len(buf))
	}
	it.Title = string(buf[cursor : cursor+titleLen])
	cursor += titleLen
	it.Path = string(buf[cursor : cursor+pathLen])
	cursor += pathLen

	if cursor != uint64(len(buf)) {
		panic(fmt.Sprintf("item record cursor at %d after parsing, buffer is %d bytes: corrupted or mismatched schema", cursor, len(buf)))
	}
	return it, nil
}
