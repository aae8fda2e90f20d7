package shell_test

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/jpappel/qsimp/pkg/query"
	"github.com/jpappel/qsimp/pkg/shell"
)

func newInterpreter() *shell.Interpreter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return shell.NewInterpreter(nil, query.DefaultParseOptions(), logger)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []shell.IToken
	}{
		{"empty", "   ", []shell.IToken{}},
		{"let literal", "let x `a b c", []shell.IToken{
			{Type: shell.ITOK_CMD_LET},
			{Type: shell.ITOK_VAR_NAME, Text: "x"},
			{Type: shell.ITOK_VAL_STR, Text: "a b c"},
		}},
		{"literal swallows commands", "parse tokenize `+a parse", []shell.IToken{
			{Type: shell.ITOK_CMD_PARSE},
			{Type: shell.ITOK_CMD_TOKENIZE},
			{Type: shell.ITOK_VAL_STR, Text: "+a parse"},
		}},
		{"output format", "out_json q", []shell.IToken{
			{Type: shell.ITOK_CMD_OUTPUT, Text: "json"},
			{Type: shell.ITOK_VAR_NAME, Text: "q"},
		}},
		{"integer", "let n 12", []shell.IToken{
			{Type: shell.ITOK_CMD_LET},
			{Type: shell.ITOK_VAR_NAME, Text: "n"},
			{Type: shell.ITOK_VAL_INT, Text: "12"},
		}},
		{"unknown word", "bogus", []shell.IToken{
			{Type: shell.ITOK_INVALID, Text: "bogus"},
		}},
	}

	inter := newInterpreter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inter.Tokenize(tt.line)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func eval(t *testing.T, inter *shell.Interpreter, line string) string {
	t.Helper()
	b := &strings.Builder{}
	fatal, err := inter.Eval(b, inter.Tokenize(line))
	if fatal || err != nil {
		t.Fatalf("Eval(%q) fatal=%v err=%v", line, fatal, err)
	}
	return b.String()
}

func TestEval_Pipeline(t *testing.T) {
	inter := newInterpreter()

	if out := eval(t, inter, "let q parse tokenize `+(+a +b) +c"); out != "" {
		t.Errorf("let produced output %q", out)
	}
	if v := inter.State["q"]; v.Type != shell.VAL_QUERY {
		t.Fatalf("q has type %s, want %s", v.Type, shell.VAL_QUERY)
	}

	out := eval(t, inter, "simplify q")
	if !strings.Contains(out, "Flatten") {
		t.Errorf("simplify output missing flatten event:\n%s", out)
	}
	if !strings.Contains(out, "flattened:1") {
		t.Errorf("simplify output missing stats:\n%s", out)
	}

	out = eval(t, inter, "out_default _")
	if !strings.Contains(out, "+text:a +text:b +text:c") {
		t.Errorf("out_default = %q", out)
	}
	if v := inter.State["_"]; v.Type != shell.VAL_STRING {
		t.Errorf("_ has type %s, want %s", v.Type, shell.VAL_STRING)
	}
}

func TestEval_Len(t *testing.T) {
	inter := newInterpreter()

	tests := []struct {
		line string
		want string
	}{
		{"len `abcd", "4\n"},
		{"len tokenize `+a -b", "4\n"},
		{"len parse tokenize `+a -b c", "3\n"},
	}
	for _, tt := range tests {
		if got := eval(t, inter, tt.line); got != tt.want {
			t.Errorf("Eval(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestEval_Variables(t *testing.T) {
	inter := newInterpreter()

	eval(t, inter, "let s `a b")
	eval(t, inter, "let n 3")
	if len(inter.State) != 2 {
		t.Fatalf("Expected 2 variables, got %d", len(inter.State))
	}

	if got := eval(t, inter, "print s"); got != "a b\n" {
		t.Errorf("print s = %q", got)
	}

	eval(t, inter, "del s")
	if _, ok := inter.State["s"]; ok {
		t.Error("s was not deleted")
	}

	eval(t, inter, "del")
	if len(inter.State) != 0 {
		t.Errorf("Expected no variables, got %v", inter.State)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"invalid token", "bogus"},
		{"parse string", "parse `a"},
		{"simplify tokens", "simplify tokenize `a"},
		{"missing variable", "print nope"},
		{"unknown format", "out_xml parse tokenize `a"},
		{"parse error", "parse tokenize `(a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inter := newInterpreter()
			fatal, err := inter.Eval(io.Discard, inter.Tokenize(tt.line))
			if fatal {
				t.Error("Unexpected fatal error")
			}
			if err == nil {
				t.Error("Expected error")
			}
		})
	}
}
