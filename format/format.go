// Package format renders JSON values for output.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/combi/json"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(v json.Value) error
}

// NewEncoder returns the encoder registered under name: "text", "json" or
// "line".
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text":
		return NewTextEncoder(w), nil
	case "json":
		return NewCanonicalEncoder(w, ""), nil
	case "line":
		return NewLineEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}

// TextEncoder writes values with json.Serialize.
type TextEncoder struct {
	w     io.Writer
	value json.Value
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(v json.Value) error {
	e.value = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	return []byte(json.Serialize(e.value) + "\n"), nil
}
