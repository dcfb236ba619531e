package grammars_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/combi/grammars"
	"github.com/dhamidi/combi/json"
	"github.com/dhamidi/combi/parse"
	"golang.org/x/exp/ebnf"
)

func TestCheck(t *testing.T) {
	for _, name := range grammars.Names() {
		t.Run(name, func(t *testing.T) {
			if err := grammars.Check(name); err != nil {
				t.Errorf("Check(%q): %v", name, err)
			}
		})
	}
	if err := grammars.Check("yaml"); err == nil {
		t.Error("Check(\"yaml\") succeeded for an unknown grammar")
	}
}

func TestNames(t *testing.T) {
	names := grammars.Names()
	if len(names) != 2 || names[0] != "expr" || names[1] != "json" {
		t.Errorf("Names() = %v, want [expr json]", names)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.ebnf")
	if err := os.WriteFile(path, []byte(`A = "a" B .`), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := grammars.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := ebnf.Verify(g, "A"); err == nil {
		t.Error("Verify succeeded with a missing production")
	}

	if _, err := grammars.LoadFile(filepath.Join(dir, "missing.ebnf")); err == nil {
		t.Error("LoadFile succeeded for a missing file")
	}
}

func consumed[A any](p parse.Parser[A], input string) int {
	r := p.Parse(input)
	if !r.OK() {
		return -1
	}
	return r.Consumed(input)
}

// The lexical productions of the EBNF description accept exactly what the
// combinator lexemes accept.
func TestMatcher_AgreesWithCombinators(t *testing.T) {
	g, err := grammars.Load("json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := grammars.NewMatcher(g)
	rules := json.Grammar()

	tests := []struct {
		production string
		p          func(string) int
		inputs     []string
	}{
		{
			production: "integer",
			p:          func(in string) int { return consumed(parse.Int, in) },
			inputs:     []string{"123x", "-5", "-", "x", "0", "007"},
		},
		{
			production: "fraction",
			p:          func(in string) int { return consumed(rules.Fraction, in) },
			inputs:     []string{"3.50", "-0.25", "3.", "12", ".5", "1.2.3"},
		},
		{
			production: "string",
			p:          func(in string) int { return consumed(rules.Key, in) },
			inputs: []string{
				`"abc"rest`,
				`"a\"b"`,
				`"a\qb"`,
				`"héllo"`,
				`""`,
				"\"ctl\x01\"",
				`"open`,
			},
		},
	}

	for _, tt := range tests {
		for _, in := range tt.inputs {
			want := tt.p(in)
			if got := m.Match(tt.production, in); got != want {
				t.Errorf("Match(%q, %q) = %d, combinator consumed %d", tt.production, in, got, want)
			}
		}
	}
}

func TestMatcher_UnknownProduction(t *testing.T) {
	g, err := grammars.Load("expr")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := grammars.NewMatcher(g).Match("nope", "1"); got != -1 {
		t.Errorf("Match on unknown production = %d, want -1", got)
	}
}
