package render

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the render page schema revision emitted by this tool.
// Decoders tolerate older revisions by defaulting the fields they lack.
type SchemaVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// CurrentSchemaVersion is written on every page this tool produces.
var CurrentSchemaVersion = SchemaVersion{Major: 0, Minor: 3, Patch: 0}

// PageReference is the resolved form of a cross-reference: everything a
// consumer needs to render a link without loading the target page.
type PageReference struct {
	Identifier string         `json:"identifier"`
	Title      string         `json:"title,omitempty"`
	URL        string         `json:"url,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Role       string         `json:"role,omitempty"`
	Abstract   InlineContents `json:"abstract,omitempty"`
	IsExternal bool           `json:"external,omitempty"`
}

// Page is one fully assembled render node: the per-page document model a
// documentation archive stores and a browser consumes.
type Page struct {
	SchemaVersion SchemaVersion            `json:"schemaVersion"`
	Identifier    string                   `json:"identifier"`
	Kind          string                   `json:"kind"`
	Metadata      Metadata                 `json:"metadata"`
	Abstract      InlineContents           `json:"abstract,omitempty"`
	Content       BlockContents            `json:"primaryContentSections,omitempty"`
	References    map[string]PageReference `json:"references,omitempty"`
}

// EncodePage serializes a page to its archive JSON.
func EncodePage(p *Page) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding page %s: %w", p.Identifier, err)
	}
	return data, nil
}

// DecodePage parses archive JSON back into a page. Decode has no partial
// success: either the whole page parses or an error comes back.
func DecodePage(data []byte) (*Page, error) {
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}
	return &p, nil
}

// PlainText is the page's contribution to a search index: abstract plus all
// primary content, folded structurally.
func (p *Page) PlainText() string {
	abstract := p.Abstract.PlainText()
	body := p.Content.PlainText()
	if abstract == "" {
		return body
	}
	if body == "" {
		return abstract
	}
	return abstract + "\n" + body
}
