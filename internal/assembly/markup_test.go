package assembly

import (
	"testing"

	"github.com/docpack/docpack/internal/render"
)

func TestConvertMarkup_Document(t *testing.T) {
	src := []byte(`## Overview {#overview}

Use *sessions* to talk to **servers** via ` + "`connect()`" + ` and [Example](doc://com.example/documentation/example).

` + "```swift\nlet x = 1\nprint(x)\n```" + `

1. first step
2. second step

- a bullet

> Note: Careful with retries.

| Name | Kind |
|:-----|-----:|
| init | method |

---
`)

	blocks := ConvertMarkup(src)
	if len(blocks) != 8 {
		t.Fatalf("converted %d blocks, want 8: %#v", len(blocks), blocks)
	}

	heading, ok := blocks[0].(render.Heading)
	if !ok || heading.Level != 2 || heading.Text != "Overview" || heading.Anchor != "overview" {
		t.Errorf("blocks[0] = %#v", blocks[0])
	}

	para, ok := blocks[1].(render.Paragraph)
	if !ok {
		t.Fatalf("blocks[1] = %#v", blocks[1])
	}
	var sawEmphasis, sawStrong, sawCode, sawReference bool
	for _, el := range para.InlineContent {
		switch v := el.(type) {
		case render.Emphasis:
			sawEmphasis = v.InlineContent.PlainText() == "sessions"
		case render.Strong:
			sawStrong = v.InlineContent.PlainText() == "servers"
		case render.CodeVoice:
			sawCode = v.Code == "connect()"
		case render.Reference:
			sawReference = v.Identifier == "doc://com.example/documentation/example" && v.IsActive
		}
	}
	if !sawEmphasis || !sawStrong || !sawCode || !sawReference {
		t.Errorf("paragraph inline content incomplete: emphasis=%v strong=%v code=%v reference=%v",
			sawEmphasis, sawStrong, sawCode, sawReference)
	}

	code, ok := blocks[2].(render.CodeListing)
	if !ok || code.Syntax != "swift" || len(code.Code) != 2 || code.Code[0] != "let x = 1" {
		t.Errorf("blocks[2] = %#v", blocks[2])
	}

	ordered, ok := blocks[3].(render.OrderedList)
	if !ok || len(ordered.Items) != 2 {
		t.Fatalf("blocks[3] = %#v", blocks[3])
	}
	if got := ordered.Items[1].Content.PlainText(); got != "second step" {
		t.Errorf("second item text = %q", got)
	}

	unordered, ok := blocks[4].(render.UnorderedList)
	if !ok || len(unordered.Items) != 1 {
		t.Errorf("blocks[4] = %#v", blocks[4])
	}

	aside, ok := blocks[5].(render.Aside)
	if !ok {
		t.Fatalf("blocks[5] = %#v", blocks[5])
	}
	if aside.Style != "note" || aside.Name != "Note" {
		t.Errorf("aside style/name = %q/%q", aside.Style, aside.Name)
	}
	if got := aside.Content.PlainText(); got != "Careful with retries." {
		t.Errorf("aside text = %q, label should be stripped", got)
	}

	table, ok := blocks[6].(render.Table)
	if !ok {
		t.Fatalf("blocks[6] = %#v", blocks[6])
	}
	if table.Header != render.HeaderRow {
		t.Errorf("table header = %q", table.Header)
	}
	if len(table.Rows) != 2 || len(table.Rows[0].Cells) != 2 {
		t.Fatalf("table shape = %d rows", len(table.Rows))
	}
	if got := table.Rows[1].Cells[0].PlainText(); got != "init" {
		t.Errorf("table cell = %q", got)
	}
	if len(table.Alignments) != 2 || table.Alignments[0] != "left" || table.Alignments[1] != "right" {
		t.Errorf("alignments = %v", table.Alignments)
	}

	if _, ok := blocks[7].(render.ThematicBreak); !ok {
		t.Errorf("blocks[7] = %#v", blocks[7])
	}
}

func TestConvertMarkup_PlainQuoteStaysNote(t *testing.T) {
	blocks := ConvertMarkup([]byte("> Just a quotation."))
	if len(blocks) != 1 {
		t.Fatalf("converted %d blocks", len(blocks))
	}
	aside := blocks[0].(render.Aside)
	if aside.Style != "note" || aside.Name != "" {
		t.Errorf("aside = %#v", aside)
	}
	if got := aside.Content.PlainText(); got != "Just a quotation." {
		t.Errorf("aside text = %q", got)
	}
}

func TestConvertMarkup_ImageInline(t *testing.T) {
	blocks := ConvertMarkup([]byte("![figure](diagram.png)"))
	if len(blocks) != 1 {
		t.Fatalf("converted %d blocks", len(blocks))
	}
	para := blocks[0].(render.Paragraph)
	var found bool
	for _, el := range para.InlineContent {
		if img, ok := el.(render.Image); ok && img.Identifier == "diagram.png" {
			found = true
		}
	}
	if !found {
		t.Errorf("image not converted: %#v", para)
	}
}

func TestConvertMarkup_RoundTripsThroughCodec(t *testing.T) {
	blocks := ConvertMarkup([]byte("# Title\n\nBody with `code`.\n"))
	encoded, err := blocks.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var restored render.BlockContents
	if err := restored.UnmarshalJSON(encoded); err != nil {
		t.Fatal(err)
	}
	if restored.PlainText() != blocks.PlainText() {
		t.Errorf("codec changed the fold: %q vs %q", restored.PlainText(), blocks.PlainText())
	}
}
