package parse

// Character classes. Only single-byte ASCII is classified; other bytes are
// never spaces, letters or digits.

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Item consumes one byte of input. It fails on empty input.
var Item = New(func(input string) Result[byte] {
	if input == "" {
		return Failure[byte]()
	}
	return Success(input[0], input[1:])
})

// Space consumes one ASCII whitespace byte.
var Space = Bind(Item, func(c byte) Parser[byte] {
	return Condition(c, isSpace)
})

// Character consumes one ASCII letter.
var Character = Bind(Item, func(c byte) Parser[byte] {
	return Condition(c, isAlpha)
})

// Digit consumes one ASCII digit and returns its numeric value.
var Digit = Bind(Item, func(c byte) Parser[int] {
	if isDigit(c) {
		return Pure(int(c - '0'))
	}
	return Fail(0)
})

// Symbol consumes the byte c and nothing else.
func Symbol(c byte) Parser[byte] {
	return Bind(Item, func(x byte) Parser[byte] {
		return Condition(x, func(x byte) bool { return x == c })
	})
}

// Keyword matches s byte by byte via chained Symbol parsers.
func Keyword(s string) Parser[string] {
	p := Pure(s)
	for i := len(s) - 1; i >= 0; i-- {
		p = Then(Symbol(s[i]), p)
	}
	return p
}

// ManySpace skips zero or more whitespace bytes. It always succeeds.
var ManySpace = Map(Many(Space), func(s []byte) string { return string(s) })

// ManyDigit reads one or more digits into a non-negative int, most
// significant digit first. Values beyond the range of int wrap around
// following Go's two's-complement integer arithmetic; no overflow is reported.
var ManyDigit = New(func(input string) Result[int] {
	n, digits := 0, 0
	for {
		r := Digit.Parse(input)
		if !r.ok {
			break
		}
		n = n*10 + r.Value
		digits++
		input = r.Rest
	}
	if digits == 0 {
		return Failure[int]()
	}
	return Success(n, input)
})

// Int reads an optional leading '-' immediately followed by digits.
var Int = Or(
	Then(Symbol('-'), Map(ManyDigit, func(n int) int { return -n })),
	ManyDigit,
)

// Word reads a non-empty run of ASCII letters.
var Word = Map(Some(Character), func(cs []byte) string { return string(cs) })

// Token skips whitespace around p and returns p's value.
func Token[A any](p Parser[A]) Parser[A] {
	return Then(ManySpace, Skip(p, ManySpace))
}

// Token-wrapped lexemes.
var (
	Integer        = Token(Int)
	DigitToken     = Token(Digit)
	CharacterToken = Token(Character)
	WordToken      = Token(Word)
)

// SymbolToken is Symbol(c) with surrounding whitespace skipped.
func SymbolToken(c byte) Parser[byte] {
	return Token(Symbol(c))
}
