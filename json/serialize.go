package json

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Serialize renders v as text.
//
// Strings are wrapped in quotes without escaping, and each object member is
// rendered as its own { "key": value } group joined by commas, with no braces
// around the whole object. The output therefore only re-parses to v when
// strings hold no quotes or control characters and objects have exactly one
// member. Use format.CanonicalEncoder for output that always re-parses.
func Serialize(v Value) string {
	var b strings.Builder
	serialize(&b, v)
	return b.String()
}

func serialize(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case Int:
		b.WriteString(strconv.Itoa(int(v)))
	case Bool:
		b.WriteString(strconv.FormatBool(bool(v)))
	case Float:
		b.WriteString(FormatFloat(float64(v)))
	case String:
		b.WriteByte('"')
		b.WriteString(string(v))
		b.WriteByte('"')
	case Array:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			serialize(b, e)
		}
		b.WriteByte(']')
	case Object:
		for i, k := range SortedKeys(v) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(`{ "`)
			b.WriteString(k)
			b.WriteString(`": `)
			serialize(b, v[k])
			b.WriteString(" }")
		}
	default:
		b.WriteString("null")
	}
}

// FormatFloat renders f with 16 significant digits. The result always
// contains a decimal point and never an exponent, so the grammar reads it
// back as a Float. NaN and infinities are rendered as null.
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'g', 16, 64)
	if strings.ContainsAny(s, "eE") {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SortedKeys returns the keys of obj in ascending order.
func SortedKeys(obj Object) []string {
	return slices.Sorted(maps.Keys(obj))
}
