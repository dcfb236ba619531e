package json

import (
	"strconv"
	"strings"
	"sync"

	"github.com/dhamidi/combi/parse"
)

// Rules is the JSON grammar. Every rule is token-wrapped, so whitespace
// around any value is skipped.
type Rules struct {
	Value    parse.Parser[Value] // fraction | int | true | false | null | string | object | array
	Fraction parse.Parser[Value]
	Int      parse.Parser[Value]
	True     parse.Parser[Value]
	False    parse.Parser[Value]
	Null     parse.Parser[Value]
	String   parse.Parser[Value]
	Array    parse.Parser[Value]
	Object   parse.Parser[Value]

	// Elements is a value optionally followed by a comma.
	Elements parse.Parser[Value]
	// Key is a quoted object key.
	Key parse.Parser[string]
}

var (
	grammarOnce sync.Once
	grammar     *Rules
)

// Grammar returns the JSON grammar, building it on first use.
func Grammar() *Rules {
	grammarOnce.Do(func() {
		grammar = newRules()
	})
	return grammar
}

// Parse applies the value rule to input. Trailing input is left in Rest.
func Parse(input string) parse.Result[Value] {
	return Grammar().Value.Parse(input)
}

// ParseExact parses input as a single JSON value and fails with
// parse.ErrNoMatch or *parse.TrailingInputError unless all of it is consumed.
func ParseExact(input string) (Value, error) {
	return parse.Exact(Grammar().Value, input)
}

type member struct {
	key   string
	value Value
}

func newRules() *Rules {
	r := &Rules{}

	r.Fraction = parse.Token(fraction)
	r.Int = parse.Map(parse.Integer, func(n int) Value { return Int(n) })
	r.True = literal("true", Bool(true))
	r.False = literal("false", Bool(false))
	r.Null = literal("null", Null{})
	r.Key = parse.Token(quoted)
	r.String = parse.Map(r.Key, func(s string) Value { return String(s) })

	// Object and Array refer back to Value, so Value reaches them through
	// Lazy and reads the fields once they are set.
	r.Value = parse.Choice(
		r.Fraction,
		r.Int,
		r.True,
		r.False,
		r.Null,
		r.String,
		parse.Lazy(func() parse.Parser[Value] { return r.Object }),
		parse.Lazy(func() parse.Parser[Value] { return r.Array }),
	)

	r.Elements = parse.Skip(r.Value, optionalComma)

	r.Array = parse.Then(parse.SymbolToken('['),
		parse.Bind(parse.Many(r.Elements), func(elems []Value) parse.Parser[Value] {
			return parse.Then(parse.SymbolToken(']'), parse.Pure[Value](append(Array{}, elems...)))
		}))

	entry := parse.Bind(r.Key, func(key string) parse.Parser[member] {
		return parse.Then(parse.SymbolToken(':'),
			parse.Bind(r.Value, func(v Value) parse.Parser[member] {
				return parse.Then(optionalComma, parse.Pure(member{key: key, value: v}))
			}))
	})

	r.Object = parse.Then(parse.SymbolToken('{'),
		parse.Bind(parse.Many(entry), func(members []member) parse.Parser[Value] {
			return parse.Then(parse.SymbolToken('}'), parse.Pure[Value](collect(members)))
		}))

	return r
}

// collect builds an Object; a later member with the same key wins.
func collect(members []member) Object {
	obj := make(Object, len(members))
	for _, m := range members {
		obj[m.key] = m.value
	}
	return obj
}

func literal(word string, v Value) parse.Parser[Value] {
	return parse.Token(parse.Then(parse.Keyword(word), parse.Pure(v)))
}

var optionalComma = parse.Or(parse.SymbolToken(','), parse.Pure[byte](0))

// fraction reads [-]digits.digits and converts the consumed text with
// strconv.ParseFloat, so leading zeros in the fraction count and arbitrarily
// long digit runs round correctly. The integer part is not limited to the
// range of int. A number too large for float64 does not match.
var fraction = parse.Bind(sign, func(negative bool) parse.Parser[Value] {
	return parse.Bind(parse.Some(parse.Digit), func(whole []int) parse.Parser[Value] {
		return parse.Then(parse.Symbol('.'),
			parse.Bind(parse.Some(parse.Digit), func(frac []int) parse.Parser[Value] {
				f, ok := decimal(negative, whole, frac)
				if !ok {
					return parse.Fail[Value](nil)
				}
				return parse.Pure[Value](Float(f))
			}))
	})
})

var sign = parse.Or(
	parse.Then(parse.Symbol('-'), parse.Pure(true)),
	parse.Pure(false),
)

// decimal computes whole + frac × 10^-len(frac), rounded once to the nearest
// float64. Values that underflow become zero; values that overflow report
// false.
func decimal(negative bool, whole, frac []int) (float64, bool) {
	var sb strings.Builder
	sb.Grow(len(whole) + len(frac) + 2)
	if negative {
		sb.WriteByte('-')
	}
	for _, d := range whole {
		sb.WriteByte(byte('0' + d))
	}
	sb.WriteByte('.')
	for _, d := range frac {
		sb.WriteByte(byte('0' + d))
	}
	f, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// quoted reads a double-quoted string and returns its decoded contents.
var quoted = parse.Then(parse.Symbol('"'),
	parse.Bind(parse.Many(jsonChar), func(cs []byte) parse.Parser[string] {
		return parse.Then(parse.Symbol('"'), parse.Pure(string(cs)))
	}))

var jsonChar = parse.Or(
	parse.Bind(parse.Item, func(c byte) parse.Parser[byte] {
		return parse.Condition(c, plain)
	}),
	parse.Then(parse.Symbol('\\'), parse.Choice(
		escape('n', '\n'),
		escape('b', '\b'),
		escape('f', '\f'),
		escape('r', '\r'),
		escape('t', '\t'),
		escape('"', '"'),
	)),
)

// plain reports whether c may appear unescaped inside a string. Bytes above
// 0x7f pass through untouched.
func plain(c byte) bool {
	return c != '"' && c != '\\' && c >= 0x20 && c != 0x7f
}

func escape(code, decoded byte) parse.Parser[byte] {
	return parse.Then(parse.Symbol(code), parse.Pure(decoded))
}
