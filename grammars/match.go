package grammars

import (
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Matcher recognizes lexical productions of a grammar. Alternatives take the
// longest match and repetitions are greedy, which is how the combinator
// lexemes behave as well.
type Matcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey]int  // key -> match length (-1 = no match)
	visiting map[memoKey]bool // cycle detection
}

// NewMatcher creates a matcher for g.
func NewMatcher(g ebnf.Grammar) *Matcher {
	return &Matcher{grammar: g}
}

// Match returns the length of the longest prefix of input matched by the
// named production, or -1 if it does not match. A production that matches
// the empty string returns 0.
func (m *Matcher) Match(name, input string) int {
	m.input = input
	m.memo = make(map[memoKey]int)
	m.visiting = make(map[memoKey]bool)
	return m.matchName(name, 0)
}

// match attempts to match an expression at the given offset and returns the
// match length or -1.
func (m *Matcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		if len(m.input)-offset >= len(e.String) && m.input[offset:offset+len(e.String)] == e.String {
			return len(e.String)
		}
		return -1

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.match(item, offset+total)
			if n < 0 {
				return -1
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := m.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.match(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		if n := m.match(e.Body, offset); n > 0 {
			return n
		}
		return 0

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)

	default:
		return -1
	}
}

// matchName matches a named production with memoization and cycle detection.
func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := m.memo[key]; ok {
		return result
	}
	// Left recursion at the same offset cannot make progress.
	if m.visiting[key] {
		return -1
	}

	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = -1
		return -1
	}

	m.visiting[key] = true
	result := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = result
	return result
}

// matchRange matches one UTF-8 encoded character between begin and end.
// Bytes that are not valid UTF-8 decode as U+FFFD with width 1.
func (m *Matcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	ch, size := utf8.DecodeRuneInString(m.input[offset:])
	if lo <= ch && ch <= hi {
		return size
	}
	return -1
}
