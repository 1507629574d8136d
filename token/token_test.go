package token_test

import (
	"strings"
	"testing"

	"github.com/pianohacker/scarab/reader"
	"github.com/pianohacker/scarab/token"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	tok := token.New(reader.NewCharSource(strings.NewReader(input)))
	var out []token.Token
	for {
		res := tok.Next()
		switch res.Outcome {
		case reader.Ok:
			out = append(out, res.Value)
		case reader.None:
			return out
		case reader.Err:
			t.Fatalf("unexpected tokenize error: %v", res.Err)
		}
	}
}

func TestTokenizePunctuation(t *testing.T) {
	got := tokenize(t, "()[]{}',;\n")
	want := []token.Kind{
		token.LParen, token.RParen,
		token.LBracket, token.RBracket,
		token.LBrace, token.RBrace,
		token.Quote, token.Comma, token.Semicolon, token.Newline,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, got[i].Kind, k)
		}
	}
}

func TestTokenizeIntegers(t *testing.T) {
	data := []struct {
		input string
		want  int64
	}{
		{"123", 123},
		{"-123", -123},
		{"0", 0},
		{"0b101", 5},
		{"0x1F", 31},
	}

	for _, d := range data {
		got := tokenize(t, d.input)
		if len(got) != 1 || got[0].Kind != token.IntegerLit {
			t.Fatalf("%q: got %v, want single integer token", d.input, got)
		}
		if got[0].Integer != d.want {
			t.Errorf("%q: got %d, want %d", d.input, got[0].Integer, d.want)
		}
	}
}

func TestTokenizeBarePrefixIsInvalidInteger(t *testing.T) {
	data := []string{"0b", "0x", "0b)", "0x)"}

	for _, input := range data {
		tok := token.New(reader.NewCharSource(strings.NewReader(input)))
		res := tok.Next()
		if res.Outcome != reader.Err {
			t.Fatalf("%q: got outcome %s, want Err", input, res.Outcome)
		}
		if !strings.Contains(res.Err.Error(), "invalid integer") {
			t.Errorf("%q: got error %v, want \"invalid integer\"", input, res.Err)
		}
	}

	// the invalid-integer error latches the tokenizer, so the terminator
	// following the bare prefix is not returned as a token afterward.
	tok := token.New(reader.NewCharSource(strings.NewReader("0b)")))
	tok.Next()
	next := tok.Next()
	if next.Outcome != reader.None {
		t.Fatalf("got %+v, want latched None after the error", next)
	}
}

func TestTokenizeDigitOutsideBaseIsUnparsable(t *testing.T) {
	data := []string{"0b12", "0xAZ"}

	for _, input := range data {
		tok := token.New(reader.NewCharSource(strings.NewReader(input)))
		res := tok.Next()
		if res.Outcome != reader.Err {
			t.Fatalf("%q: got outcome %s, want Err", input, res.Outcome)
		}
		if strings.Contains(res.Err.Error(), "invalid integer") {
			t.Errorf("%q: got %v, want an unparsable-integer error, not invalid-prefix", input, res.Err)
		}
	}
}

func TestTokenizeString(t *testing.T) {
	got := tokenize(t, `"hello world"`)
	if len(got) != 1 || got[0].Kind != token.StringLit || got[0].Text != "hello world" {
		t.Fatalf("got %v", got)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	tok := token.New(reader.NewCharSource(strings.NewReader(`"oops`)))
	res := tok.Next()
	if res.Outcome != reader.Err {
		t.Fatalf("got outcome %s, want Err", res.Outcome)
	}

	// latches: subsequent calls keep returning None
	if next := tok.Next(); next.Outcome != reader.None {
		t.Errorf("expected latched None after error, got %s", next.Outcome)
	}
}

func TestTokenizeIdentifiers(t *testing.T) {
	got := tokenize(t, "foo bar-baz +")
	want := []string{"foo", "bar-baz", "+"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i].Kind != token.IdentifierLit || got[i].Text != w {
			t.Errorf("token %d: got %+v, want identifier %q", i, got[i], w)
		}
	}
}

func TestTokenizeMinusIsIdentifierWithoutDigit(t *testing.T) {
	got := tokenize(t, "- foo")
	if len(got) != 2 || got[0].Kind != token.IdentifierLit || got[0].Text != "-" {
		t.Fatalf("got %v", got)
	}
}

func TestTokenEqual(t *testing.T) {
	a := token.Token{Kind: token.IdentifierLit, Text: "foo"}
	b := token.Token{Kind: token.IdentifierLit, Text: "foo"}
	c := token.Token{Kind: token.IdentifierLit, Text: "bar"}

	if !a.Equal(b) {
		t.Error("expected equal identifiers to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected differing identifiers to compare unequal")
	}
}
