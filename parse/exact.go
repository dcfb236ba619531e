package parse

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by Exact when the parser fails.
var ErrNoMatch = errors.New("no match")

// TrailingInputError is returned by Exact when the parser succeeds without
// consuming all of its input.
type TrailingInputError struct {
	Offset int    // byte offset of the first unconsumed byte
	Rest   string // unconsumed input
}

func (e *TrailingInputError) Error() string {
	rest := e.Rest
	if len(rest) > 20 {
		rest = rest[:20] + "..."
	}
	return fmt.Sprintf("unexpected trailing input at offset %d: %q", e.Offset, rest)
}

// Exact applies p to input and requires it to consume everything.
// A successful parse with remaining input is not an error for the
// combinators themselves; Exact is for callers that want whole-input matches.
func Exact[A any](p Parser[A], input string) (A, error) {
	r := p.Parse(input)
	if !r.ok {
		var zero A
		return zero, ErrNoMatch
	}
	if r.Rest != "" {
		return r.Value, &TrailingInputError{Offset: len(input) - len(r.Rest), Rest: r.Rest}
	}
	return r.Value, nil
}
