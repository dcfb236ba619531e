package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, stdin, args...)
	return out, err
}

func runWithStderr(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestJSONParse(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"canonical", `{ "b": 1, "a": [true] }`, []string{"json", "parse"}, `{"a":[true],"b":1}` + "\n"},
		{"text", `[1, "x", 2.50]`, []string{"json", "parse", "-f", "text"}, `[1,"x",2.5]` + "\n"},
		{"line", `{"a": [null]}`, []string{"json", "parse", "--format", "line"}, "$.a[0]\tnull\tnull\n"},
		{"lenient", "[1] x", []string{"json", "parse", "--exact=false"}, "[1]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONParse_Errors(t *testing.T) {
	if _, err := run(t, "[1] x", "json", "parse"); err == nil {
		t.Error("trailing input accepted with --exact")
	}
	if _, err := run(t, "{", "json", "parse"); err == nil {
		t.Error("malformed input accepted")
	}
	if _, err := run(t, "1", "json", "parse", "-f", "yaml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestJSONCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"k": [1, 2]}`)
	bad := writeFile(t, dir, "bad.json", `{"k": }`)

	out, err := run(t, "", "json", "check", good)
	if err != nil {
		t.Fatalf("check good: %v", err)
	}
	if out != good+": ok\n" {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, "", "json", "check", "-j", "2", good, bad, filepath.Join(dir, "missing.json"))
	if err == nil {
		t.Fatal("check succeeded with failing files")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("output = %q, want 3 lines", out)
	}
	if lines[0] != good+": ok" || !strings.HasPrefix(lines[1], bad+": ") || lines[1] == bad+": ok" {
		t.Errorf("output = %q", out)
	}
}

func TestJSONCheck_ReportsErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.json", "[]")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero-jobs", []string{"json", "check", "-j", "0", path}, "--jobs must be at least 1"},
		{"failed-files", []string{"json", "check", path + ".missing"}, "1 of 1 files failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runWithStderr(t, "", tt.args...)
			if err == nil {
				t.Fatal("check succeeded")
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestJSONFmt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", `{"b":1,"a":"x"}`)

	if _, err := run(t, "", "json", "fmt", "-w", path); err != nil {
		t.Fatalf("fmt -w: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": \"x\",\n  \"b\": 1\n}\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	out, err := run(t, "[1,2]", "json", "fmt", "--indent", "")
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if out != "[1,2]\n" {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, "[]", "json", "fmt", "-w"); err == nil {
		t.Error("-w accepted without a file")
	}
}

func TestExprEval(t *testing.T) {
	out, err := run(t, "", "expr", "eval", "5 + 3 * 2")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if out != "11\n" {
		t.Errorf("output = %q, want \"11\\n\"", out)
	}

	out, err = run(t, "(3 * (-1 - -3))/2\n", "expr", "eval")
	if err != nil {
		t.Fatalf("eval stdin: %v", err)
	}
	if out != "3\n" {
		t.Errorf("output = %q, want \"3\\n\"", out)
	}

	if _, err := run(t, "", "expr", "eval", "1/0"); err == nil {
		t.Error("division by zero accepted")
	}
}

func TestGrammarCheck(t *testing.T) {
	for _, name := range []string{"json", "expr"} {
		if _, err := run(t, "", "grammar", "check", name); err != nil {
			t.Errorf("check %s: %v", name, err)
		}
	}

	path := writeFile(t, t.TempDir(), "broken.ebnf", `A = "a" B .`)
	if _, err := run(t, "", "grammar", "check", path); err != nil {
		t.Errorf("syntax check: %v", err)
	}
	out, err := run(t, "", "grammar", "check", "--start", "A", path)
	if err == nil {
		t.Fatal("verify succeeded with an undefined production")
	}
	if !strings.Contains(out, "B") {
		t.Errorf("output = %q, want a mention of B", out)
	}
}

func TestGrammarShow(t *testing.T) {
	out, err := run(t, "", "grammar", "show", "expr")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Expr") {
		t.Errorf("output does not define Expr:\n%s", out)
	}
	if _, err := run(t, "", "grammar", "show", "yaml"); err == nil {
		t.Error("show accepted an unknown grammar")
	}
}
