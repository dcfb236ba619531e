// Package parse provides a small algebra of monadic parser combinators over
// in-memory text.
//
// # Overview
//
// A [Parser] wraps a function from input to a [Result]. Input is a Go string;
// consuming input means returning a suffix of it, so no parser ever mutates
// shared storage and backtracking is free: an alternative simply reruns on the
// string it was given.
//
// Parsers are built once and are immutable afterward. They hold no mutable
// state and may be invoked concurrently against independent inputs.
//
// # Combinators
//
//   - [Map]: apply a function to the parsed value
//   - [Pure]: succeed without consuming input
//   - [Bind]: sequence two parsers, feeding the first value to the second
//   - [Then]: sequence two parsers, discarding the first value
//   - [Or], [Choice]: ordered alternation with full backtracking
//   - [Many], [Some]: repetition
//   - [Fail], [Condition]: explicit failure and predicates
//   - [Lazy]: deferred construction for mutually recursive grammars
//
// Bind and Pure satisfy the monad laws:
//
//	Bind(Pure(a), f)         ≡ f(a)
//	Bind(p, Pure)            ≡ p
//	Bind(Bind(p, f), g)      ≡ Bind(p, func(x) { return Bind(f(x), g) })
//
// # Failure
//
// Failure is a single undifferentiated signal with no position or reason. It
// is recovered by the nearest enclosing alternation or repetition. Callers
// that need diagnostics derive them from the remaining input.
package parse

// Result is the outcome of applying a parser to some input.
// On success Value holds the parsed value and Rest the unconsumed suffix.
// On failure both are zero.
type Result[A any] struct {
	Value A
	Rest  string
	ok    bool
}

// Success returns a successful result.
func Success[A any](value A, rest string) Result[A] {
	return Result[A]{Value: value, Rest: rest, ok: true}
}

// Failure returns a failed result.
func Failure[A any]() Result[A] {
	return Result[A]{}
}

// OK reports whether the parse succeeded.
func (r Result[A]) OK() bool {
	return r.ok
}

// Consumed returns the number of bytes of input consumed to produce r.
// It returns 0 for failed results.
func (r Result[A]) Consumed(input string) int {
	if !r.ok {
		return 0
	}
	return len(input) - len(r.Rest)
}

// Parser is a function from input to Result. The zero Parser is not usable.
type Parser[A any] struct {
	run func(input string) Result[A]
}

// New wraps fn as a Parser.
func New[A any](fn func(input string) Result[A]) Parser[A] {
	return Parser[A]{run: fn}
}

// Parse applies p to input.
func (p Parser[A]) Parse(input string) Result[A] {
	return p.run(input)
}

// Map runs p and applies f to its value.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return New(func(input string) Result[B] {
		r := p.run(input)
		if !r.ok {
			return Failure[B]()
		}
		return Success(f(r.Value), r.Rest)
	})
}

// Pure always succeeds with v and consumes nothing.
func Pure[A any](v A) Parser[A] {
	return New(func(input string) Result[A] {
		return Success(v, input)
	})
}

// Bind runs p, then runs the parser f returns for p's value on the
// remaining input. f is not called when p fails.
func Bind[A, B any](p Parser[A], f func(A) Parser[B]) Parser[B] {
	return New(func(input string) Result[B] {
		r := p.run(input)
		if !r.ok {
			return Failure[B]()
		}
		return f(r.Value).run(r.Rest)
	})
}

// Then runs p and then q on the remaining input, returning q's result.
func Then[A, B any](p Parser[A], q Parser[B]) Parser[B] {
	return New(func(input string) Result[B] {
		r := p.run(input)
		if !r.ok {
			return Failure[B]()
		}
		return q.run(r.Rest)
	})
}

// Skip runs p and then q, keeping p's value.
func Skip[A, B any](p Parser[A], q Parser[B]) Parser[A] {
	return Bind(p, func(a A) Parser[A] {
		return Then(q, Pure(a))
	})
}

// Or runs p on the input and, if it fails, runs q on the same input.
func Or[A any](p, q Parser[A]) Parser[A] {
	return New(func(input string) Result[A] {
		if r := p.run(input); r.ok {
			return r
		}
		return q.run(input)
	})
}

// Choice tries each parser in order on the same input and returns the first
// success. With no parsers it always fails.
func Choice[A any](ps ...Parser[A]) Parser[A] {
	return New(func(input string) Result[A] {
		for _, p := range ps {
			if r := p.run(input); r.ok {
				return r
			}
		}
		return Failure[A]()
	})
}

// Many applies p until it fails and collects the values. It always succeeds.
// A success that consumes nothing stops the repetition, otherwise the loop
// would never terminate.
func Many[A any](p Parser[A]) Parser[[]A] {
	return New(func(input string) Result[[]A] {
		var values []A
		for {
			r := p.run(input)
			if !r.ok {
				break
			}
			values = append(values, r.Value)
			if len(r.Rest) == len(input) {
				break
			}
			input = r.Rest
		}
		return Success(values, input)
	})
}

// Some is like Many but fails when p does not succeed at least once.
func Some[A any](p Parser[A]) Parser[[]A] {
	many := Many(p)
	return New(func(input string) Result[[]A] {
		r := many.run(input)
		if len(r.Value) == 0 {
			return Failure[[]A]()
		}
		return r
	})
}

// Fail always fails. The placeholder only fixes the result type.
func Fail[A any](_ A) Parser[A] {
	return New(func(string) Result[A] {
		return Failure[A]()
	})
}

// Condition succeeds with a, consuming nothing, when pred(a) holds.
func Condition[A any](a A, pred func(A) bool) Parser[A] {
	if pred(a) {
		return Pure(a)
	}
	return Fail(a)
}

// Lazy defers building a parser until it is first applied. It is the
// indirection that lets grammar rules refer to each other before they exist.
// The constructor is called on every application; memoize inside it if
// construction is expensive.
func Lazy[A any](build func() Parser[A]) Parser[A] {
	return New(func(input string) Result[A] {
		return build().run(input)
	})
}
