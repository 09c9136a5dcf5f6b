package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ContentMetadata is the small metadata envelope media and code listings can
// carry: a caption, an anchor, a device frame hint.
type ContentMetadata struct {
	Anchor      string         `json:"anchor,omitempty"`
	Title       string         `json:"title,omitempty"`
	Abstract    InlineContents `json:"abstract,omitempty"`
	DeviceFrame string         `json:"deviceFrame,omitempty"`
}

// Fragment is one token of a declaration: a keyword, an identifier, a type
// reference, punctuation.
type Fragment struct {
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	Identifier string `json:"identifier,omitempty"`
}

// FragmentsText joins fragment tokens into display text.
func FragmentsText(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

// Trait selects a presentation variant, currently by source language only.
type Trait struct {
	InterfaceLanguage string `json:"interfaceLanguage,omitempty"`
}

// VariantOverride carries one trait-specific value.
type VariantOverride[T any] struct {
	Traits []Trait `json:"traits"`
	Value  T       `json:"value"`
}

// VariantCollection is a field whose value differs per presentation trait:
// one default plus overrides for specific source languages.
type VariantCollection[T any] struct {
	Default   T                    `json:"default"`
	Overrides []VariantOverride[T] `json:"overrides,omitempty"`
}

// ForLanguage resolves the value for a language id, falling back to the
// default when no override claims the trait.
func (vc VariantCollection[T]) ForLanguage(langID string) T {
	for _, o := range vc.Overrides {
		for _, t := range o.Traits {
			if t.InterfaceLanguage == langID {
				return o.Value
			}
		}
	}
	return vc.Default
}

// IsEmpty reports whether the collection was never populated.
func (vc VariantCollection[T]) IsEmpty() bool {
	if len(vc.Overrides) > 0 {
		return false
	}
	encoded, err := json.Marshal(vc.Default)
	if err != nil {
		return false
	}
	switch string(encoded) {
	case "null", `""`, "[]", "{}", "0", "false":
		return true
	}
	return false
}

// Metadata is the per-page descriptive record. Title and navigatorTitle can
// vary by source language for multi-language pages; the rest is invariant
// across traits. Unknown keys from newer producers land in Extra and are
// re-emitted on encode.
type Metadata struct {
	Title          string
	RoleHeading    string
	Role           string
	SymbolKind     string
	ExternalID     string
	Platforms      []PlatformAvailability
	Fragments      []Fragment
	NavigatorTitle []Fragment

	TitleVariants          VariantCollection[string]
	NavigatorTitleVariants VariantCollection[[]Fragment]

	Extra map[string]Value
}

// PlatformAvailability is the per-platform availability surfaced on a page.
type PlatformAvailability struct {
	Name         string `json:"name"`
	Introduced   string `json:"introducedAt,omitempty"`
	Deprecated   string `json:"deprecatedAt,omitempty"`
	IsBeta       bool   `json:"beta,omitempty"`
	IsDeprecated bool   `json:"deprecated,omitempty"`
	Unavailable  bool   `json:"unavailable,omitempty"`
}

// metadataKnownKeys lists every key the struct layout owns; anything else
// belongs to Extra.
var metadataKnownKeys = map[string]bool{
	"title":                  true,
	"roleHeading":            true,
	"role":                   true,
	"symbolKind":             true,
	"externalID":             true,
	"platforms":              true,
	"fragments":              true,
	"navigatorTitle":         true,
	"titleVariants":          true,
	"navigatorTitleVariants": true,
}

// MarshalJSON implements json.Marshaler. Known fields keep their historic
// names and omission rules; extra keys are re-emitted in sorted order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	put := func(key string, v interface{}) error {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding metadata %s: %w", key, err)
		}
		out[key] = encoded
		return nil
	}

	if err := put("title", m.Title); err != nil {
		return nil, err
	}
	if m.RoleHeading != "" {
		if err := put("roleHeading", m.RoleHeading); err != nil {
			return nil, err
		}
	}
	if m.Role != "" {
		if err := put("role", m.Role); err != nil {
			return nil, err
		}
	}
	if m.SymbolKind != "" {
		if err := put("symbolKind", m.SymbolKind); err != nil {
			return nil, err
		}
	}
	if m.ExternalID != "" {
		if err := put("externalID", m.ExternalID); err != nil {
			return nil, err
		}
	}
	if len(m.Platforms) > 0 {
		if err := put("platforms", m.Platforms); err != nil {
			return nil, err
		}
	}
	if len(m.Fragments) > 0 {
		if err := put("fragments", m.Fragments); err != nil {
			return nil, err
		}
	}
	if len(m.NavigatorTitle) > 0 {
		if err := put("navigatorTitle", m.NavigatorTitle); err != nil {
			return nil, err
		}
	}
	if !m.TitleVariants.IsEmpty() {
		if err := put("titleVariants", m.TitleVariants); err != nil {
			return nil, err
		}
	}
	if !m.NavigatorTitleVariants.IsEmpty() {
		if err := put("navigatorTitleVariants", m.NavigatorTitleVariants); err != nil {
			return nil, err
		}
	}
	for key, v := range m.Extra {
		if metadataKnownKeys[key] {
			// A known key can never hide in the forward-compat bucket.
			continue
		}
		if err := put(key, v); err != nil {
			return nil, err
		}
	}

	// Deterministic key order keeps archive output diffable.
	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(out[k])
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler, sweeping unrecognized keys into
// Extra so they survive re-encoding.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decoding metadata: %w", err)
	}

	take := func(key string, dst interface{}) error {
		encoded, ok := raw[key]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(encoded, dst); err != nil {
			return fmt.Errorf("decoding metadata %s: %w", key, err)
		}
		return nil
	}

	*m = Metadata{}
	if err := take("title", &m.Title); err != nil {
		return err
	}
	if err := take("roleHeading", &m.RoleHeading); err != nil {
		return err
	}
	if err := take("role", &m.Role); err != nil {
		return err
	}
	if err := take("symbolKind", &m.SymbolKind); err != nil {
		return err
	}
	if err := take("externalID", &m.ExternalID); err != nil {
		return err
	}
	if err := take("platforms", &m.Platforms); err != nil {
		return err
	}
	if err := take("fragments", &m.Fragments); err != nil {
		return err
	}
	if err := take("navigatorTitle", &m.NavigatorTitle); err != nil {
		return err
	}
	if err := take("titleVariants", &m.TitleVariants); err != nil {
		return err
	}
	if err := take("navigatorTitleVariants", &m.NavigatorTitleVariants); err != nil {
		return err
	}

	for key, encoded := range raw {
		if metadataKnownKeys[key] {
			continue
		}
		var v Value
		if err := json.Unmarshal(encoded, &v); err != nil {
			return fmt.Errorf("decoding metadata %s: %w", key, err)
		}
		if m.Extra == nil {
			m.Extra = map[string]Value{}
		}
		m.Extra[key] = v
	}
	return nil
}
