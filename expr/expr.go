// Package expr evaluates integer arithmetic while parsing it.
//
//	expr   = term ( "+" expr | "-" expr ) | term .
//	term   = factor ( "*" term | "/" term ) | factor .
//	factor = "(" expr ")" | integer .
//
// Both binary levels recurse on their right operand, so operators of equal
// precedence group to the right: 8/4/2 is 8/(4/2) = 4 and 5-3-2 is
// 5-(3-2) = 4. Division truncates toward zero; dividing by zero is a parse
// failure. Arithmetic wraps on overflow like Go's int.
package expr

import (
	"sync"

	"github.com/dhamidi/combi/parse"
)

// Rules is the expression grammar.
type Rules struct {
	Expr   parse.Parser[int]
	Term   parse.Parser[int]
	Factor parse.Parser[int]
}

var (
	grammarOnce sync.Once
	grammar     *Rules
)

// Grammar returns the expression grammar, building it on first use.
func Grammar() *Rules {
	grammarOnce.Do(func() {
		grammar = newRules()
	})
	return grammar
}

// Parse applies the expr rule to input. Trailing input is left in Rest.
func Parse(input string) parse.Result[int] {
	return Grammar().Expr.Parse(input)
}

// Eval evaluates input, which must be a single complete expression.
func Eval(input string) (int, error) {
	return parse.Exact(Grammar().Expr, input)
}

type operator struct {
	symbol byte
	apply  func(x, y int) (int, bool)
}

func newRules() *Rules {
	r := &Rules{}
	expr := parse.Lazy(func() parse.Parser[int] { return r.Expr })
	term := parse.Lazy(func() parse.Parser[int] { return r.Term })

	r.Factor = parse.Or(
		parse.Then(parse.SymbolToken('('),
			parse.Skip(expr, parse.SymbolToken(')'))),
		parse.Integer,
	)
	r.Term = binary(r.Factor, term,
		operator{'*', func(x, y int) (int, bool) { return x * y, true }},
		operator{'/', divide},
	)
	r.Expr = binary(r.Term, expr,
		operator{'+', func(x, y int) (int, bool) { return x + y, true }},
		operator{'-', func(x, y int) (int, bool) { return x - y, true }},
	)
	return r
}

// binary builds operand (op rhs)... | operand, trying each operator in turn.
func binary(operand, rhs parse.Parser[int], ops ...operator) parse.Parser[int] {
	return parse.Or(
		parse.Bind(operand, func(x int) parse.Parser[int] {
			alts := make([]parse.Parser[int], len(ops))
			for i, op := range ops {
				alts[i] = parse.Then(parse.SymbolToken(op.symbol),
					parse.Bind(rhs, func(y int) parse.Parser[int] {
						z, ok := op.apply(x, y)
						if !ok {
							return parse.Fail(0)
						}
						return parse.Pure(z)
					}))
			}
			return parse.Choice(alts...)
		}),
		operand,
	)
}

func divide(x, y int) (int, bool) {
	if y == 0 {
		return 0, false
	}
	return x / y, true
}
