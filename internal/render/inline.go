package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Inline content discriminators. These are wire values: renaming one breaks
// every archive ever produced, so they only ever grow.
const (
	InlineTypeText          = "text"
	InlineTypeEmphasis      = "emphasis"
	InlineTypeStrong        = "strong"
	InlineTypeCodeVoice     = "codeVoice"
	InlineTypeImage         = "image"
	InlineTypeReference     = "reference"
	InlineTypeNewTerm       = "newTerm"
	InlineTypeInlineHead    = "inlineHead"
	InlineTypeSubscript     = "subscript"
	InlineTypeSuperscript   = "superscript"
	InlineTypeStrikethrough = "strikethrough"
)

// InlineContent is one case of the inline document union. The union is
// closed but extensible: decoding an unrecognized discriminator produces an
// UnknownInline sentinel rather than failing, and every structural fold over
// the union (encode, decode, PlainText) handles it explicitly. Adding a case
// means extending the discriminator list, the decode switch, and every fold
// in lockstep; the compiler enforces the method set, the package tests
// enforce the switches.
type InlineContent interface {
	inlineType() string
	// PlainText contributes the case's searchable text.
	PlainText() string
}

// Text is a plain text run.
type Text struct {
	Text string `json:"text"`
}

func (Text) inlineType() string { return InlineTypeText }
func (t Text) PlainText() string { return t.Text }

// Emphasis renders its children with emphasis.
type Emphasis struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (Emphasis) inlineType() string { return InlineTypeEmphasis }
func (e Emphasis) PlainText() string { return e.InlineContent.PlainText() }

// Strong renders its children strongly emphasized.
type Strong struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (Strong) inlineType() string { return InlineTypeStrong }
func (s Strong) PlainText() string { return s.InlineContent.PlainText() }

// CodeVoice is inline monospaced code.
type CodeVoice struct {
	Code string `json:"code"`
}

func (CodeVoice) inlineType() string { return InlineTypeCodeVoice }
func (c CodeVoice) PlainText() string { return c.Code }

// Image references a media asset by identifier.
type Image struct {
	Identifier string           `json:"identifier"`
	Metadata   *ContentMetadata `json:"metadata,omitempty"`
}

func (Image) inlineType() string { return InlineTypeImage }
func (i Image) PlainText() string {
	if i.Metadata != nil && i.Metadata.Abstract != nil {
		return i.Metadata.Abstract.PlainText()
	}
	return ""
}

// Reference is a cross-reference to another page or symbol.
type Reference struct {
	Identifier string `json:"identifier"`
	IsActive   bool   `json:"isActive"`
	// OverridingTitle replaces the resolved title, for authored link text.
	// Both fields arrived after the first schema version; older archives
	// simply lack them.
	OverridingTitle              string         `json:"overridingTitle,omitempty"`
	OverridingTitleInlineContent InlineContents `json:"overridingTitleInlineContent,omitempty"`
}

func (Reference) inlineType() string { return InlineTypeReference }
func (r Reference) PlainText() string { return r.OverridingTitleInlineContent.PlainText() }

// NewTerm marks the defining appearance of a term.
type NewTerm struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (NewTerm) inlineType() string { return InlineTypeNewTerm }
func (n NewTerm) PlainText() string { return n.InlineContent.PlainText() }

// InlineHead is a short run-in heading.
type InlineHead struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (InlineHead) inlineType() string { return InlineTypeInlineHead }
func (h InlineHead) PlainText() string { return h.InlineContent.PlainText() }

// Subscript renders its children lowered.
type Subscript struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (Subscript) inlineType() string { return InlineTypeSubscript }
func (s Subscript) PlainText() string { return s.InlineContent.PlainText() }

// Superscript renders its children raised.
type Superscript struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (Superscript) inlineType() string { return InlineTypeSuperscript }
func (s Superscript) PlainText() string { return s.InlineContent.PlainText() }

// Strikethrough renders its children struck out.
type Strikethrough struct {
	InlineContent InlineContents `json:"inlineContent"`
}

func (Strikethrough) inlineType() string { return InlineTypeStrikethrough }
func (s Strikethrough) PlainText() string { return s.InlineContent.PlainText() }

// UnknownInline is the non-exhaustive sentinel: it captures a discriminator
// this version does not recognize together with its raw payload, so newer
// archives survive a decode/encode cycle through older tools. It contributes
// nothing to any fold, but every fold must say so explicitly.
type UnknownInline struct {
	Type string
	Raw  json.RawMessage
}

func (u UnknownInline) inlineType() string { return u.Type }
func (UnknownInline) PlainText() string    { return "" }

// InlineContents is an ordered sequence of inline content cases with
// discriminator-aware JSON codecs.
type InlineContents []InlineContent

// PlainText concatenates the searchable text of every element.
func (ic InlineContents) PlainText() string {
	var b strings.Builder
	for _, el := range ic {
		b.WriteString(el.PlainText())
	}
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (ic InlineContents) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, len(ic))
	for i, el := range ic {
		encoded, err := MarshalInline(el)
		if err != nil {
			return nil, err
		}
		out[i] = encoded
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ic *InlineContents) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(InlineContents, len(raw))
	for i, el := range raw {
		decoded, err := UnmarshalInline(el)
		if err != nil {
			return err
		}
		out[i] = decoded
	}
	*ic = out
	return nil
}

// MarshalInline encodes one inline case: the discriminator first, then the
// case's own fields.
func MarshalInline(el InlineContent) (json.RawMessage, error) {
	if u, ok := el.(UnknownInline); ok {
		// Replay the foreign payload untouched.
		return u.Raw, nil
	}
	fields, err := json.Marshal(el)
	if err != nil {
		return nil, fmt.Errorf("encoding inline %q: %w", el.inlineType(), err)
	}
	return withTypeTag(el.inlineType(), fields)
}

// UnmarshalInline decodes one inline case by discriminator.
func UnmarshalInline(b []byte) (InlineContent, error) {
	typ, err := typeTag(b)
	if err != nil {
		return nil, fmt.Errorf("decoding inline content: %w", err)
	}

	var decoded InlineContent
	switch typ {
	case InlineTypeText:
		decoded, err = decodeAs[Text](b)
	case InlineTypeEmphasis:
		decoded, err = decodeAs[Emphasis](b)
	case InlineTypeStrong:
		decoded, err = decodeAs[Strong](b)
	case InlineTypeCodeVoice:
		decoded, err = decodeAs[CodeVoice](b)
	case InlineTypeImage:
		decoded, err = decodeAs[Image](b)
	case InlineTypeReference:
		decoded, err = decodeAs[Reference](b)
	case InlineTypeNewTerm:
		decoded, err = decodeAs[NewTerm](b)
	case InlineTypeInlineHead:
		decoded, err = decodeAs[InlineHead](b)
	case InlineTypeSubscript:
		decoded, err = decodeAs[Subscript](b)
	case InlineTypeSuperscript:
		decoded, err = decodeAs[Superscript](b)
	case InlineTypeStrikethrough:
		decoded, err = decodeAs[Strikethrough](b)
	default:
		decoded = UnknownInline{Type: typ, Raw: append(json.RawMessage(nil), b...)}
	}
	if err != nil {
		return nil, fmt.Errorf("decoding inline %q: %w", typ, err)
	}
	return decoded, nil
}
