// Package grammars holds EBNF descriptions of the grammars implemented by
// packages json and expr.
//
// The descriptions use the notation of golang.org/x/exp/ebnf. Productions
// whose names start with a lowercase letter are lexical: they match bytes
// with no whitespace skipping. Uppercase productions are token-level and
// allow whitespace between their terms.
package grammars

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/exp/ebnf"
)

//go:embed *.ebnf
var files embed.FS

var starts = map[string]string{
	"json": "Value",
	"expr": "Expr",
}

// Names lists the embedded grammars.
func Names() []string {
	names := make([]string, 0, len(starts))
	for name := range starts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Start returns the start production of the named grammar.
func Start(name string) (string, error) {
	start, ok := starts[name]
	if !ok {
		return "", fmt.Errorf("unknown grammar %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return start, nil
}

// Source returns the EBNF text of the named grammar.
func Source(name string) ([]byte, error) {
	if _, err := Start(name); err != nil {
		return nil, err
	}
	return files.ReadFile(name + ".ebnf")
}

// Load parses the named embedded grammar.
func Load(name string) (ebnf.Grammar, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	grammar, err := ebnf.Parse(name+".ebnf", bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// LoadFile parses an EBNF grammar from a file.
func LoadFile(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// Check loads the named grammar and verifies it from its start production.
func Check(name string) error {
	grammar, err := Load(name)
	if err != nil {
		return err
	}
	start, _ := Start(name)
	if err := ebnf.Verify(grammar, start); err != nil {
		return fmt.Errorf("verify grammar %s: %w", name, err)
	}
	return nil
}
