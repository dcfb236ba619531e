package json

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", Int(-12), "-12"},
		{"bool", Bool(true), "true"},
		{"float", Float(3.5), "3.5"},
		{"float/whole", Float(2), "2.0"},
		{"float/small", Float(0.0000001), "0.0000001"},
		{"float/precision", Float(1.0 / 3.0), "0.3333333333333333"},
		{"float/large", Float(9223372036854775807.5), "9223372036854776000.0"},
		{"string", String("hi"), `"hi"`},
		{"string/unescaped", String("a\"b\n"), "\"a\"b\n\""},
		{"null", Null{}, "null"},
		{"array", Array{Int(1), Array{}, Null{}}, "[1,[],null]"},
		{"object/single", Object{"a": Int(1)}, `{ "a": 1 }`},
		{"object/many", Object{"b": Int(2), "a": Array{Bool(false)}}, `{ "a": [false] },{ "b": 2 }`},
		{"object/empty", Object{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.v); got != tt.want {
				t.Errorf("Serialize(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

// Values whose strings hold no quotes or control characters and whose
// objects have exactly one member survive a serialize/parse round trip.
func TestSerialize_RoundTrip(t *testing.T) {
	values := []Value{
		Int(0),
		Int(-42),
		Bool(true),
		Bool(false),
		Null{},
		Float(3.14),
		Float(-0.5),
		Float(100),
		Float(9223372036854775807.5),
		Float(1e300),
		Float(-1e-20),
		String(""),
		String("plain text with spaces"),
		Array{},
		Array{Int(1), Int(2), Int(3)},
		Array{Float(1.25), String("x"), Null{}, Array{Bool(true)}},
		Object{"key": Array{Int(1), Object{"inner": String("v")}}},
		Array{Object{"a": Int(1)}, Object{"b": Float(2.5)}},
	}

	for _, v := range values {
		text := Serialize(v)
		got, err := ParseExact(text)
		if err != nil {
			t.Errorf("ParseExact(Serialize(%v)) = %q: %v", v, text, err)
			continue
		}
		if diff := cmp.Diff(v, got); diff != "" {
			t.Errorf("round trip of %q (-want +got):\n%s", text, diff)
		}
	}
}

func TestSerialize_ParsedInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[ 1 , 2.50 , true ]", "[1,2.5,true]"},
		{`{"a":1,"a":2}`, `{ "a": 2 }`},
		{`{"z": null, "y": [ ]}`, `{ "y": [] },{ "z": null }`},
	}
	for _, tt := range tests {
		v, err := ParseExact(tt.input)
		if err != nil {
			t.Fatalf("ParseExact(%q): %v", tt.input, err)
		}
		if got := Serialize(v); got != tt.want {
			t.Errorf("Serialize(parse(%q)) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
