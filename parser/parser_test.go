package parser_test

import (
	"strings"
	"testing"

	"github.com/pianohacker/scarab/parser"
)

func TestParseValueSingleAtoms(t *testing.T) {
	data := []struct {
		input, want string
	}{
		{"123", "123"},
		{`"abc"`, `"abc"`},
		{"blah", "blah"},
		{"nil", "nil"},
		{"true", "true"},
		{"false", "false"},
	}

	for _, d := range data {
		v, _, err := parser.ParseValue(d.input)
		if err != nil {
			t.Fatalf("%q: %v", d.input, err)
		}
		if got := v.String(); got != d.want {
			t.Errorf("%q: got %q, want %q", d.input, got, d.want)
		}
	}
}

func TestParseValueQuoted(t *testing.T) {
	data := []struct {
		input, want string
	}{
		{"'abc", "'abc"},
		{"''123", "''123"},
		{"'(1 2 3)", "'(1 2 3)"},
	}

	for _, d := range data {
		v, _, err := parser.ParseValue(d.input)
		if err != nil {
			t.Fatalf("%q: %v", d.input, err)
		}
		if got := v.String(); got != d.want {
			t.Errorf("%q: got %q, want %q", d.input, got, d.want)
		}
	}
}

func TestParseValueParenList(t *testing.T) {
	v, _, err := parser.ParseValue("(+ 123 456)")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got, want := v.String(), "(+ 123 456)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseValueParenListWithNewline(t *testing.T) {
	v, _, err := parser.ParseValue("(+ 123\n456)")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got, want := v.String(), "(+ 123 456)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseValueNestedList(t *testing.T) {
	v, _, err := parser.ParseValue("(+ ((-)) 123)")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got, want := v.String(), "(+ ((-)) 123)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseValueOperatorList(t *testing.T) {
	v, _, err := parser.ParseValue("[1 + 2 + 'a]")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got, want := v.String(), "(+ 1 2 'a)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseValueOperatorListMismatch(t *testing.T) {
	_, _, err := parser.ParseValue("[1 + 2 * 3]")
	if err == nil || !strings.Contains(err.Error(), "mismatched") {
		t.Fatalf("got %v, want an error mentioning a mismatched operator", err)
	}
}

func TestParseValueFormList(t *testing.T) {
	v, _, err := parser.ParseValue("{a b; c d; 1}")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got, want := v.String(), "((a b) (c d) (1))"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseImplicitFormListUnexpectedBrace(t *testing.T) {
	_, _, err := parser.ParseImplicitFormList("d c 1}")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "unexpected") {
		t.Errorf("got %v, want an error mentioning an unexpected token", err)
	}
}

func TestParseImplicitFormListStatements(t *testing.T) {
	v, _, err := parser.ParseImplicitFormList("set a 1; set b 2; debug (+ a b)")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got, want := v.String(), "((set a 1) (set b 2) (debug (+ a b)))"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseValueEmptyInputFails(t *testing.T) {
	_, _, err := parser.ParseValue("")
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func TestParseValueUnexpectedTokenFails(t *testing.T) {
	_, _, err := parser.ParseValue(")")
	if err == nil || !strings.Contains(err.Error(), "unexpected") {
		t.Fatalf("got %v, want an unexpected-token error", err)
	}
}

func TestParseValuePositionsRecorded(t *testing.T) {
	v, positions, err := parser.ParseValue("(1 2)")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if _, ok := positions.Lookup(v); !ok {
		t.Error("expected the parsed list node to have a recorded position")
	}
	if positions.Len() == 0 {
		t.Error("expected at least one recorded position")
	}
}
