package render

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// typeTag extracts the "type" discriminator that leads every encoded case.
func typeTag(b []byte) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return "", err
	}
	if probe.Type == "" {
		return "", fmt.Errorf("missing type discriminator in %s", truncateForError(b))
	}
	return probe.Type, nil
}

// withTypeTag prepends the discriminator to an encoded case's fields. The
// field payload must be a JSON object; the tag always comes first so the
// wire shape is stable across Go map iteration and struct reordering.
func withTypeTag(typ string, fields []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(fields)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return nil, fmt.Errorf("case %q did not encode to a JSON object", typ)
	}
	tag, err := json.Marshal(typ)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(trimmed) + len(tag) + 9)
	buf.WriteString(`{"type":`)
	buf.Write(tag)
	body := bytes.TrimSpace(trimmed[1 : len(trimmed)-1])
	if len(body) > 0 {
		buf.WriteByte(',')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeAs unmarshals an encoded case into its concrete payload type. The
// discriminator key rides along but has no matching field, which is exactly
// the tolerance the legacy-decode rule needs: unknown and missing keys are
// both fine, defaults substitute silently.
func decodeAs[T any](b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

func truncateForError(b []byte) string {
	const limit = 80
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}
