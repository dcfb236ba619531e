package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/combi/json"
)

// LineEncoder flattens a value into one tab-separated line per leaf:
//
//	path	kind	value
//
// Paths start at "$"; array elements append [i] and object members append
// .key. Empty arrays and objects produce a line of their own.
type LineEncoder struct {
	w     io.Writer
	value json.Value
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(v json.Value) error {
	e.value = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.writeLines(&sb, "$", e.value)
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeLines(sb *strings.Builder, path string, v json.Value) {
	switch v := v.(type) {
	case json.Array:
		if len(v) == 0 {
			fmt.Fprintf(sb, "%s\t%s\t[]\n", path, v.Kind())
			return
		}
		for i, elem := range v {
			e.writeLines(sb, path+"["+strconv.Itoa(i)+"]", elem)
		}
	case json.Object:
		if len(v) == 0 {
			fmt.Fprintf(sb, "%s\t%s\t{}\n", path, v.Kind())
			return
		}
		for _, key := range json.SortedKeys(v) {
			e.writeLines(sb, path+"."+key, v[key])
		}
	case nil:
		fmt.Fprintf(sb, "%s\tnull\tnull\n", path)
	default:
		fmt.Fprintf(sb, "%s\t%s\t%s\n", path, v.Kind(), json.Serialize(v))
	}
}
