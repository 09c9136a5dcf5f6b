package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Block content discriminators. Wire values; append-only.
const (
	BlockTypeParagraph     = "paragraph"
	BlockTypeAside         = "aside"
	BlockTypeHeading       = "heading"
	BlockTypeOrderedList   = "orderedList"
	BlockTypeUnorderedList = "unorderedList"
	BlockTypeCodeListing   = "codeListing"
	BlockTypeTable         = "table"
	BlockTypeTermList      = "termList"
	BlockTypeStep          = "step"
	BlockTypeTabNavigator  = "tabNavigator"
	BlockTypeLinks         = "links"
	BlockTypeVideo         = "video"
	BlockTypeRow           = "row"
	BlockTypeSmall         = "small"
	BlockTypeThematicBreak = "thematicBreak"
)

// BlockContent is one case of the block document union. Same extension
// contract as InlineContent: new cases extend the discriminator list, the
// decode switch, and every structural fold together, and the UnknownBlock
// sentinel absorbs discriminators from the future.
type BlockContent interface {
	blockType() string
	// PlainText contributes the case's searchable text.
	PlainText() string
}

// Paragraph holds a run of inline content.
type Paragraph struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (Paragraph) blockType() string { return BlockTypeParagraph }
func (p Paragraph) PlainText() string { return p.InlineContent.PlainText() }

// Aside is a styled callout (note, warning, important, ...). Name arrived
// in a later schema revision; archives without it render the style name.
type Aside struct {
	Style   string        `json:"style"`
	Name    string        `json:"name,omitempty"`
	Content BlockContents `json:"content"`
}

func (Aside) blockType() string { return BlockTypeAside }
func (a Aside) PlainText() string { return a.Content.PlainText() }

// Heading is a section heading with an optional link anchor.
type Heading struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor,omitempty"`
}

func (Heading) blockType() string { return BlockTypeHeading }
func (h Heading) PlainText() string { return h.Text }

// ListItem is one entry of an ordered or unordered list.
type ListItem struct {
	Content BlockContents `json:"content"`
}

// OrderedList is a numbered list; StartIndex is a later addition defaulting
// to 1 when absent from older archives.
type OrderedList struct {
	Items      []ListItem `json:"items"`
	StartIndex uint       `json:"startIndex,omitempty"`
}

func (OrderedList) blockType() string { return BlockTypeOrderedList }
func (l OrderedList) PlainText() string {
	var b strings.Builder
	for _, item := range l.Items {
		b.WriteString(item.Content.PlainText())
	}
	return b.String()
}

// UnorderedList is a bulleted list.
type UnorderedList struct {
	Items []ListItem `json:"items"`
}

func (UnorderedList) blockType() string { return BlockTypeUnorderedList }
func (l UnorderedList) PlainText() string {
	var b strings.Builder
	for _, item := range l.Items {
		b.WriteString(item.Content.PlainText())
	}
	return b.String()
}

// CodeListing is a code block; code is stored line by line.
type CodeListing struct {
	Syntax   string           `json:"syntax,omitempty"`
	Code     []string         `json:"code"`
	Metadata *ContentMetadata `json:"metadata,omitempty"`
}

func (CodeListing) blockType() string { return BlockTypeCodeListing }
func (c CodeListing) PlainText() string { return strings.Join(c.Code, "\n") }

// TermListItem pairs a term with its definition.
type TermListItem struct {
	Term       TermText       `json:"term"`
	Definition TermDefinition `json:"definition"`
}

type TermText struct {
	InlineContent InlineContents `json:"inlineContent"`
}

type TermDefinition struct {
	Content BlockContents `json:"content"`
}

// TermList is a definition list.
type TermList struct {
	Items []TermListItem `json:"items"`
}

func (TermList) blockType() string { return BlockTypeTermList }
func (l TermList) PlainText() string {
	var b strings.Builder
	for _, item := range l.Items {
		b.WriteString(item.Term.InlineContent.PlainText())
		b.WriteString(" ")
		b.WriteString(item.Definition.Content.PlainText())
	}
	return b.String()
}

// Step is one tutorial step: instructions plus the media or code shown next
// to them.
type Step struct {
	Content        BlockContents `json:"content"`
	Caption        BlockContents `json:"caption,omitempty"`
	Media          string        `json:"media,omitempty"`
	Code           string        `json:"code,omitempty"`
	RuntimePreview string        `json:"runtimePreview,omitempty"`
}

func (Step) blockType() string { return BlockTypeStep }
func (s Step) PlainText() string {
	return s.Content.PlainText() + s.Caption.PlainText()
}

// Tab is one pane of a TabNavigator.
type Tab struct {
	Title   string        `json:"title"`
	Content BlockContents `json:"content"`
}

// TabNavigator switches between alternative content panes.
type TabNavigator struct {
	Tabs []Tab `json:"tabs"`
}

func (TabNavigator) blockType() string { return BlockTypeTabNavigator }
func (t TabNavigator) PlainText() string {
	var b strings.Builder
	for _, tab := range t.Tabs {
		b.WriteString(tab.Title)
		b.WriteString(" ")
		b.WriteString(tab.Content.PlainText())
	}
	return b.String()
}

// Links renders a group of page references in a given visual style.
type Links struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

func (Links) blockType() string { return BlockTypeLinks }
func (Links) PlainText() string { return "" }

// Video references a video asset by identifier.
type Video struct {
	Identifier string           `json:"identifier"`
	Metadata   *ContentMetadata `json:"metadata,omitempty"`
}

func (Video) blockType() string { return BlockTypeVideo }
func (v Video) PlainText() string {
	if v.Metadata != nil && v.Metadata.Abstract != nil {
		return v.Metadata.Abstract.PlainText()
	}
	return ""
}

// RowColumn is one column of a Row.
type RowColumn struct {
	Size    int           `json:"size"`
	Content BlockContents `json:"content"`
}

// Row lays columns of content side by side.
type Row struct {
	NumberOfColumns int         `json:"numberOfColumns"`
	Columns         []RowColumn `json:"columns"`
}

func (Row) blockType() string { return BlockTypeRow }
func (r Row) PlainText() string {
	var b strings.Builder
	for _, col := range r.Columns {
		b.WriteString(col.Content.PlainText())
	}
	return b.String()
}

// Small renders inline content in a de-emphasized footnote style.
type Small struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (Small) blockType() string { return BlockTypeSmall }
func (s Small) PlainText() string { return s.InlineContent.PlainText() }

// ThematicBreak is a horizontal rule. No payload.
type ThematicBreak struct{}

func (ThematicBreak) blockType() string { return BlockTypeThematicBreak }
func (ThematicBreak) PlainText() string { return "" }

// UnknownBlock is the non-exhaustive sentinel for block content; see
// UnknownInline.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (u UnknownBlock) blockType() string { return u.Type }
func (UnknownBlock) PlainText() string   { return "" }

// BlockContents is an ordered sequence of block content cases with
// discriminator-aware JSON codecs.
type BlockContents []BlockContent

// PlainText concatenates the searchable text of every element, separating
// blocks with newlines.
func (bc BlockContents) PlainText() string {
	var parts []string
	for _, el := range bc {
		if text := el.PlainText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// MarshalJSON implements json.Marshaler.
func (bc BlockContents) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, len(bc))
	for i, el := range bc {
		encoded, err := MarshalBlock(el)
		if err != nil {
			return nil, err
		}
		out[i] = encoded
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (bc *BlockContents) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(BlockContents, len(raw))
	for i, el := range raw {
		decoded, err := UnmarshalBlock(el)
		if err != nil {
			return err
		}
		out[i] = decoded
	}
	*bc = out
	return nil
}

// MarshalBlock encodes one block case, discriminator first.
func MarshalBlock(el BlockContent) (json.RawMessage, error) {
	switch v := el.(type) {
	case UnknownBlock:
		return v.Raw, nil
	case Table:
		// Tables bypass the natural field layout; see table.go.
		return v.marshalWithExtendedData()
	}
	fields, err := json.Marshal(el)
	if err != nil {
		return nil, fmt.Errorf("encoding block %q: %w", el.blockType(), err)
	}
	return withTypeTag(el.blockType(), fields)
}

// UnmarshalBlock decodes one block case by discriminator.
func UnmarshalBlock(b []byte) (BlockContent, error) {
	typ, err := typeTag(b)
	if err != nil {
		return nil, fmt.Errorf("decoding block content: %w", err)
	}

	var decoded BlockContent
	switch typ {
	case BlockTypeParagraph:
		decoded, err = decodeAs[Paragraph](b)
	case BlockTypeAside:
		decoded, err = decodeAs[Aside](b)
	case BlockTypeHeading:
		decoded, err = decodeAs[Heading](b)
	case BlockTypeOrderedList:
		decoded, err = decodeAs[OrderedList](b)
	case BlockTypeUnorderedList:
		decoded, err = decodeAs[UnorderedList](b)
	case BlockTypeCodeListing:
		decoded, err = decodeAs[CodeListing](b)
	case BlockTypeTable:
		decoded, err = unmarshalTable(b)
	case BlockTypeTermList:
		decoded, err = decodeAs[TermList](b)
	case BlockTypeStep:
		decoded, err = decodeAs[Step](b)
	case BlockTypeTabNavigator:
		decoded, err = decodeAs[TabNavigator](b)
	case BlockTypeLinks:
		decoded, err = decodeAs[Links](b)
	case BlockTypeVideo:
		decoded, err = decodeAs[Video](b)
	case BlockTypeRow:
		decoded, err = decodeAs[Row](b)
	case BlockTypeSmall:
		decoded, err = decodeAs[Small](b)
	case BlockTypeThematicBreak:
		decoded = ThematicBreak{}
	default:
		decoded = UnknownBlock{Type: typ, Raw: append(json.RawMessage(nil), b...)}
	}
	if err != nil {
		return nil, fmt.Errorf("decoding block %q: %w", typ, err)
	}
	return decoded, nil
}

// Headings is a structural fold collecting every heading in document order.
// Like PlainText it must stay total: each case states its contribution even
// when that contribution is nothing.
func Headings(blocks BlockContents) []Heading {
	var out []Heading
	for _, el := range blocks {
		switch v := el.(type) {
		case Heading:
			out = append(out, v)
		case Aside:
			out = append(out, Headings(v.Content)...)
		case OrderedList:
			for _, item := range v.Items {
				out = append(out, Headings(item.Content)...)
			}
		case UnorderedList:
			for _, item := range v.Items {
				out = append(out, Headings(item.Content)...)
			}
		case TermList:
			for _, item := range v.Items {
				out = append(out, Headings(item.Definition.Content)...)
			}
		case Step:
			out = append(out, Headings(v.Content)...)
		case TabNavigator:
			for _, tab := range v.Tabs {
				out = append(out, Headings(tab.Content)...)
			}
		case Row:
			for _, col := range v.Columns {
				out = append(out, Headings(col.Content)...)
			}
		case Table:
			// Table cells hold block content but never section headings.
		case Paragraph, CodeListing, Links, Video, Small, ThematicBreak:
			// No heading contribution.
		case UnknownBlock:
			// Foreign cases cannot contribute headings we can interpret.
		default:
			panic(fmt.Sprintf("Headings: unhandled block content case %q", el.blockType()))
		}
	}
	return out
}
