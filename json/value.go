// Package json parses and renders JSON documents with the combinators of
// package parse.
//
// A parsed document is a [Value], one of [Int], [Bool], [Float], [String],
// [Null], [Array] or [Object]. The grammar accepts a pragmatic subset of JSON:
// numbers are integers or plain fractions (no exponents), strings recognize
// the escapes \n \b \f \r \t and \", trailing commas in arrays and objects are
// tolerated, and duplicate object keys keep the last value.
package json

import "fmt"

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindBool
	KindFloat
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindInt:    "int",
	KindBool:   "bool",
	KindFloat:  "float",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a JSON value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// Int is a JSON number without a fractional part.
	Int int
	// Bool is true or false.
	Bool bool
	// Float is a JSON number with a fractional part.
	Float float64
	// String is a decoded JSON string.
	String string
	// Null is the null literal.
	Null struct{}
	// Array is an ordered sequence of values.
	Array []Value
	// Object maps unique keys to values.
	Object map[string]Value
)

func (Int) Kind() Kind    { return KindInt }
func (Bool) Kind() Kind   { return KindBool }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Null) Kind() Kind   { return KindNull }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

func (Int) isValue()    {}
func (Bool) isValue()   {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Null) isValue()   {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Array:
		b := b.(Array)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Object:
		b := b.(Object)
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
