package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ValueKind discriminates the closed set of JSON shapes a Value can hold.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// Value is a closed algebraic JSON value. It exists to preserve unknown keys
// across decode/encode cycles: metadata buckets decoded from newer producers
// hold fields this version knows nothing about, and they must survive a
// round trip byte-for-byte in meaning if not in key order.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int64
	Float  float64
	String string
	Array  []Value
	Object map[string]Value
}

func Null() Value                          { return Value{Kind: KindNull} }
func BoolValue(b bool) Value               { return Value{Kind: KindBool, Bool: b} }
func IntValue(n int64) Value               { return Value{Kind: KindInt, Int: n} }
func FloatValue(f float64) Value           { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value           { return Value{Kind: KindString, String: s} }
func ArrayValue(vs ...Value) Value         { return Value{Kind: KindArray, Array: vs} }
func ObjectValue(m map[string]Value) Value { return Value{Kind: KindObject, Object: m} }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindString:
		return json.Marshal(v.String)
	case KindArray:
		if v.Array == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Array)
	case KindObject:
		// Deterministic key order for stable archive diffs.
		keys := make([]string, 0, len(v.Object))
		for k := range v.Object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := json.Marshal(v.Object[k])
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unhandled value kind %d", v.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromInterface(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return IntValue(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("unrepresentable number %q", x.String())
		}
		return FloatValue(f), nil
	case string:
		return StringValue(x), nil
	case []interface{}:
		arr := make([]Value, len(x))
		for i, el := range x {
			parsed, err := fromInterface(el)
			if err != nil {
				return Value{}, err
			}
			arr[i] = parsed
		}
		return ArrayValue(arr...), nil
	case map[string]interface{}:
		obj := make(map[string]Value, len(x))
		for k, el := range x {
			parsed, err := fromInterface(el)
			if err != nil {
				return Value{}, err
			}
			obj[k] = parsed
		}
		return ObjectValue(obj), nil
	default:
		return Value{}, fmt.Errorf("unhandled JSON shape %T", raw)
	}
}

// Equal compares two values structurally.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Float == other.Float
	case KindString:
		return v.String == other.String
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Object) != len(other.Object) {
			return false
		}
		for k, val := range v.Object {
			otherVal, ok := other.Object[k]
			if !ok || !val.Equal(otherVal) {
				return false
			}
		}
		return true
	}
	return false
}
