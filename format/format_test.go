package format

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/dhamidi/combi/json"
)

var sample = json.Object{
	"b": json.Array{json.Int(1), json.Float(2.5), json.Null{}},
	"a": json.Object{"s": json.String("x\"y\\z\x01")},
	"e": json.Array{},
}

func TestCanonicalEncoder(t *testing.T) {
	tests := []struct {
		name   string
		indent string
		want   string
	}{
		{"compact", "", `{"a":{"s":"x\"y\\z\u0001"},"b":[1,2.5,null],"e":[]}` + "\n"},
		{"indented", "  ", `{
  "a": {
    "s": "x\"y\\z\u0001"
  },
  "b": [
    1,
    2.5,
    null
  ],
  "e": []
}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewCanonicalEncoder(&buf, tt.indent).Encode(sample); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Encode =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestTextEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(json.Object{"a": json.Int(1), "b": json.Bool(true)}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{ "a": 1 },{ "b": true }` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(sample); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "$.a.s\tstring\t\"x\"y\\z\x01\"\n" +
		"$.b[0]\tint\t1\n" +
		"$.b[1]\tfloat\t2.5\n" +
		"$.b[2]\tnull\tnull\n" +
		"$.e\tarray\t[]\n"
	if got := buf.String(); got != want {
		t.Errorf("Encode =\n%q\nwant\n%q", got, want)
	}
}

func TestNewEncoder(t *testing.T) {
	for _, name := range []string{"text", "json", "line"} {
		if _, err := NewEncoder(name, &bytes.Buffer{}); err != nil {
			t.Errorf("NewEncoder(%q): %v", name, err)
		}
	}
	if _, err := NewEncoder("yaml", &bytes.Buffer{}); err == nil {
		t.Error("NewEncoder(\"yaml\") succeeded")
	}
}

func TestCanonicalEncoder_Floats(t *testing.T) {
	tests := []struct {
		name string
		v    json.Float
		want string
	}{
		{"whole", 2, "2.0"},
		{"seventeen-digits", 0.12345678901234567, ""},
		{"beyond-int-range", 9223372036854775807.5, "9223372036854776000.0"},
		{"small", 1e-7, "0.0000001"},
		{"nan", json.Float(math.NaN()), "null"},
		{"inf", json.Float(math.Inf(-1)), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewCanonicalEncoder(&buf, "").Encode(tt.v); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got := strings.TrimSuffix(buf.String(), "\n")
			if tt.want != "" && got != tt.want {
				t.Errorf("Encode(%v) = %q, want %q", float64(tt.v), got, tt.want)
			}
			if math.IsNaN(float64(tt.v)) || math.IsInf(float64(tt.v), 0) {
				return
			}
			back, err := json.ParseExact(got)
			if err != nil {
				t.Fatalf("ParseExact(%q): %v", got, err)
			}
			if back != json.Value(tt.v) {
				t.Errorf("ParseExact(%q) = %v, want %v", got, back, tt.v)
			}
		})
	}
}
