// Package token implements Scarab's tokenizer: a reader.Source over runes
// that emits a reader.Source of Tokens.
package token

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/pianohacker/scarab/reader"
)

// Kind tags the shape of a Token.
type Kind int

const (
	LParen Kind = iota
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Quote
	Newline
	Comma
	Semicolon
	IntegerLit
	StringLit
	IdentifierLit
)

func (k Kind) String() string {
	switch k {
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case Quote:
		return "'"
	case Newline:
		return "newline"
	case Comma:
		return ","
	case Semicolon:
		return ";"
	case IntegerLit:
		return "integer"
	case StringLit:
		return "string"
	case IdentifierLit:
		return "identifier"
	default:
		return "token(?)"
	}
}

// Token is one lexical unit: punctuation markers carry no payload; literals
// carry their value.
type Token struct {
	Kind    Kind
	Integer int64
	Text    string // String and Identifier payload
}

func (t Token) String() string {
	switch t.Kind {
	case IntegerLit:
		return strconv.FormatInt(t.Integer, 10)
	case StringLit:
		return strconv.Quote(t.Text)
	case IdentifierLit:
		return t.Text
	default:
		return t.Kind.String()
	}
}

func punct(k Kind) Token { return Token{Kind: k} }

// Equal reports whether two tokens carry the same kind and payload.
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case IntegerLit:
		return t.Integer == other.Integer
	case StringLit, IdentifierLit:
		return t.Text == other.Text
	default:
		return true
	}
}

func isTokenTerminator(c rune) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', '\'', '"', '\n', ',', ';':
		return true
	}
	return unicode.IsSpace(c)
}

// Tokenizer consumes positioned characters and emits positioned tokens. On
// any error it latches into a stopped state: every subsequent call returns
// None.
type Tokenizer struct {
	input   *reader.Reader[rune]
	stopped bool
}

// New wraps a char source in a Tokenizer.
func New(chars reader.Source[rune]) *Tokenizer {
	return &Tokenizer{input: reader.New(chars)}
}

// Next implements reader.Source[Token].
func (t *Tokenizer) Next() reader.ResultAt[Token] {
	if t.stopped {
		return reader.NoneAt[Token](reader.Position{})
	}

	// Skip ASCII whitespace other than newline.
	t.input.ItemsWhileSuccessfulIf(func(c rune) bool {
		return c != '\n' && unicode.IsSpace(c) && c < unicode.MaxASCII
	})

	first := t.input.Next()
	if first.Outcome != reader.Ok {
		if first.Outcome == reader.Err {
			t.stopped = true
		}
		return reader.Convert[rune, Token](first)
	}

	pos := first.Pos
	c := first.Value

	var tok Token
	var err error

	switch {
	case c == '(':
		tok = punct(LParen)
	case c == ')':
		tok = punct(RParen)
	case c == '[':
		tok = punct(LBracket)
	case c == ']':
		tok = punct(RBracket)
	case c == '{':
		tok = punct(LBrace)
	case c == '}':
		tok = punct(RBrace)
	case c == '\'':
		tok = punct(Quote)
	case c == '\n':
		tok = punct(Newline)
	case c == ',':
		tok = punct(Comma)
	case c == ';':
		tok = punct(Semicolon)
	case c == '"':
		var s string
		s, err = t.tokenizeString(pos)
		tok = Token{Kind: StringLit, Text: s}
	case unicode.IsDigit(c):
		var n int64
		n, err = t.tokenizeInteger(c)
		tok = Token{Kind: IntegerLit, Integer: n}
	case c == '-' && t.nextIsDigit():
		var n int64
		n, err = t.tokenizeInteger(c)
		tok = Token{Kind: IntegerLit, Integer: n}
	case !unicode.IsControl(c):
		var s string
		s, err = t.tokenizeIdentifier(c)
		tok = Token{Kind: IdentifierLit, Text: s}
	default:
		err = errors.Errorf("unexpected character: %q", c)
	}

	if err != nil {
		t.stopped = true
		return reader.ErrAt[Token](err, pos)
	}

	return reader.OkAt(tok, pos)
}

func (t *Tokenizer) nextIsDigit() bool {
	peeked := t.input.Peek()
	return peeked.Outcome == reader.Ok && unicode.IsDigit(peeked.Value)
}

func isBinaryDigit(c rune) bool {
	return c == '0' || c == '1'
}

func isHexDigit(c rune) bool {
	return unicode.IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (t *Tokenizer) tokenizeString(openPos reader.Position) (string, error) {
	var sb strings.Builder
	for {
		peeked := t.input.Peek()
		if peeked.Outcome != reader.Ok {
			return "", errors.Wrap(reader.NewPosError(errUnterminatedString, openPos), "tokenize")
		}
		if peeked.Value == '"' {
			t.input.Next()
			return sb.String(), nil
		}
		sb.WriteRune(t.input.Next().Value)
	}
}

var errUnterminatedString = errors.New("unterminated string")

func (t *Tokenizer) tokenizeIdentifier(first rune) (string, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for _, c := range t.input.ItemsWhileSuccessfulIf(func(c rune) bool { return !isTokenTerminator(c) }) {
		sb.WriteRune(c)
	}
	return sb.String(), nil
}

func (t *Tokenizer) tokenizeInteger(first rune) (int64, error) {
	base := 10
	negative := false
	chars := []rune{first}

	if first == '-' {
		negative = true
		next := t.input.Next()
		if next.Outcome != reader.Ok {
			return 0, errors.New("invalid integer")
		}
		chars = []rune{next.Value}
	}

	if chars[0] == '0' {
		switch peeked := t.input.Peek(); {
		case peeked.Outcome == reader.Ok && peeked.Value == 'b':
			base = 2
			t.input.Next()
			if next := t.input.Peek(); next.Outcome != reader.Ok || !isBinaryDigit(next.Value) {
				return 0, errors.New("invalid integer")
			}
			chars = []rune{t.input.Next().Value}
		case peeked.Outcome == reader.Ok && peeked.Value == 'x':
			base = 16
			t.input.Next()
			if next := t.input.Peek(); next.Outcome != reader.Ok || !isHexDigit(next.Value) {
				return 0, errors.New("invalid integer")
			}
			chars = []rune{t.input.Next().Value}
		}
	}

	rest := t.input.ItemsWhileSuccessfulIf(func(c rune) bool { return !isTokenTerminator(c) })
	chars = append(chars, rest...)

	n, err := strconv.ParseInt(string(chars), base, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "unparsable integer %q", string(chars))
	}
	if negative {
		n = -n
	}
	return n, nil
}
