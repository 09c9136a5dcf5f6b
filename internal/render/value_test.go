package render

import (
	"encoding/json"
	"testing"
)

func TestValue_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"null", `null`},
		{"bool", `true`},
		{"int", `42`},
		{"float", `3.25`},
		{"string", `"hello"`},
		{"array", `[1,"two",false,null]`},
		{"object", `{"a":1,"b":{"c":[1,2]},"d":"x"}`},
		{"large int", `9007199254740993`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tc.in), &v); err != nil {
				t.Fatal(err)
			}
			out, err := json.Marshal(v)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tc.in {
				t.Errorf("round trip: got %s, want %s", out, tc.in)
			}
		})
	}
}

func TestValue_IntNotFloat(t *testing.T) {
	// 9007199254740993 does not survive a float64 round trip; the int kind
	// must be used for whole numbers.
	var v Value
	if err := json.Unmarshal([]byte(`9007199254740993`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindInt || v.Int != 9007199254740993 {
		t.Errorf("got %+v, want int kind", v)
	}
}

func TestValue_Equal(t *testing.T) {
	a := ObjectValue(map[string]Value{
		"xs": ArrayValue(IntValue(1), StringValue("two")),
		"ok": BoolValue(true),
	})
	b := ObjectValue(map[string]Value{
		"ok": BoolValue(true),
		"xs": ArrayValue(IntValue(1), StringValue("two")),
	})
	if !a.Equal(b) {
		t.Error("structurally identical values should be equal")
	}
	c := ObjectValue(map[string]Value{"ok": BoolValue(false)})
	if a.Equal(c) {
		t.Error("different values should not be equal")
	}
	if IntValue(1).Equal(FloatValue(1)) {
		t.Error("int and float kinds are distinct")
	}
}
