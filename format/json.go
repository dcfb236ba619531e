package format

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dhamidi/combi/json"
)

// CanonicalEncoder writes standard JSON: objects are braced, keys sorted and
// strings escaped. Values whose strings only need the escapes \n \b \f \r \t
// and \" are read back unchanged by json.ParseExact. Floats are written in
// their shortest exact decimal form.
type CanonicalEncoder struct {
	w      io.Writer
	indent string
	value  json.Value
}

// NewCanonicalEncoder returns an encoder writing to w. A non-empty indent
// puts every array element and object member on its own line.
func NewCanonicalEncoder(w io.Writer, indent string) *CanonicalEncoder {
	return &CanonicalEncoder{w: w, indent: indent}
}

func (e *CanonicalEncoder) Encode(v json.Value) error {
	e.value = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *CanonicalEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.write(&sb, e.value, 0)
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func (e *CanonicalEncoder) write(sb *strings.Builder, v json.Value, depth int) {
	switch v := v.(type) {
	case json.Int:
		sb.WriteString(strconv.Itoa(int(v)))
	case json.Bool:
		sb.WriteString(strconv.FormatBool(bool(v)))
	case json.Float:
		sb.WriteString(formatFloat(float64(v)))
	case json.String:
		writeQuoted(sb, string(v))
	case json.Array:
		if len(v) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.newline(sb, depth+1)
			e.write(sb, elem, depth+1)
		}
		e.newline(sb, depth)
		sb.WriteByte(']')
	case json.Object:
		if len(v) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteByte('{')
		for i, key := range json.SortedKeys(v) {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.newline(sb, depth+1)
			writeQuoted(sb, key)
			sb.WriteByte(':')
			if e.indent != "" {
				sb.WriteByte(' ')
			}
			e.write(sb, v[key], depth+1)
		}
		e.newline(sb, depth)
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}

// formatFloat writes the shortest fixed-point decimal that reads back as f.
// NaN and infinities have no JSON form and are written as null.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (e *CanonicalEncoder) newline(sb *strings.Builder, depth int) {
	if e.indent == "" {
		return
	}
	sb.WriteByte('\n')
	for range depth {
		sb.WriteString(e.indent)
	}
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				sb.WriteString(`\u00`)
				sb.WriteString(strconv.FormatUint(uint64(c)>>4, 16))
				sb.WriteString(strconv.FormatUint(uint64(c)&0xf, 16))
				continue
			}
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
}
