// Package parser implements Scarab's recursive-descent parser: it consumes a
// token.Token stream and produces value.Value trees, alongside a
// value.PositionMap recording where each materialized node came from.
package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/pianohacker/scarab/reader"
	"github.com/pianohacker/scarab/token"
	"github.com/pianohacker/scarab/value"
)

// ErrUnexpectedToken is the cause wrapped when a token cannot start or
// continue the form being parsed.
type ErrUnexpectedToken struct {
	Got token.Token
}

func (e *ErrUnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected token: %s", e.Got)
}

// ErrUnterminatedList is the cause wrapped when a terminator is hit with an
// enclosing form still open (or the stream ends first).
var ErrUnterminatedList = errors.New("unterminated list")

// ErrMismatchedOperator is the cause wrapped when an operator list's
// separators don't all use the same identifier.
type ErrMismatchedOperator struct {
	First, Got string
}

func (e *ErrMismatchedOperator) Error() string {
	return fmt.Sprintf("mismatched operator list; operator %q does not match initial operator %q", e.Got, e.First)
}

// Parser turns a token stream into value.Value trees.
type Parser struct {
	input     *reader.Reader[token.Token]
	positions *value.PositionMap
}

// New builds a Parser over tokens.
func New(tokens reader.Source[token.Token]) *Parser {
	return &Parser{
		input:     reader.New(tokens),
		positions: value.NewPositionMap(),
	}
}

// Positions returns the PositionMap accumulated so far.
func (p *Parser) Positions() *value.PositionMap { return p.positions }

func (p *Parser) skipNewlines() {
	p.input.ItemsWhileSuccessfulIf(func(t token.Token) bool { return t.Kind == token.Newline })
}

// next returns the next non-newline token.
func (p *Parser) next() reader.ResultAt[token.Token] {
	p.skipNewlines()
	return p.input.Next()
}

// peek returns the next non-newline token without consuming it.
func (p *Parser) peek() reader.ResultAt[token.Token] {
	p.skipNewlines()
	return p.input.Peek()
}

func (p *Parser) record(v *value.Value, pos reader.Position) *value.Value {
	p.positions.Insert(v, pos)
	return v
}

func elementsToList(elements []*value.Value) *value.Value {
	return value.NewList(elements...)
}

// ParseValue parses exactly one value: an atom, a quote, or one of the three
// bracketed forms.
func (p *Parser) ParseValue() reader.ResultAt[*value.Value] {
	tok := p.next()
	switch tok.Outcome {
	case reader.Err:
		return reader.Convert[token.Token, *value.Value](tok)
	case reader.None:
		return reader.ErrAt[*value.Value](errors.New("unexpected end of input"), tok.Pos)
	}

	t := tok.Value
	pos := tok.Pos

	var v *value.Value
	var err error

	switch t.Kind {
	case token.IntegerLit:
		v = value.NewInteger(t.Integer)
	case token.StringLit:
		v = value.NewString(t.Text)
	case token.IdentifierLit:
		switch t.Text {
		case "nil":
			v = value.NewNil()
		case "true":
			v = value.NewBoolean(true)
		case "false":
			v = value.NewBoolean(false)
		default:
			v = value.NewIdentifier(t.Text)
		}
	case token.LParen:
		listRes := p.parseList(func(t reader.ResultAt[token.Token]) (bool, error) {
			return tokenIsOrEOF(t, token.RParen)
		})
		if listRes.Outcome != reader.Ok {
			return listRes
		}
		closeRes := p.input.Next() // consume RParen
		if closeRes.Outcome != reader.Ok {
			return reader.ErrAt[*value.Value](ErrUnterminatedList, pos)
		}
		v = listRes.Value
	case token.LBracket:
		opListRes := p.parseOperatorList(pos)
		if opListRes.Outcome != reader.Ok {
			return opListRes
		}
		v = opListRes.Value
	case token.LBrace:
		formListRes := p.parseFormList(pos)
		if formListRes.Outcome != reader.Ok {
			return formListRes
		}
		v = formListRes.Value
	case token.Quote:
		innerRes := p.ParseValue()
		if innerRes.Outcome != reader.Ok {
			return innerRes
		}
		v = value.NewQuoted(innerRes.Value)
	default:
		err = &ErrUnexpectedToken{Got: t}
	}

	if err != nil {
		return reader.ErrAt[*value.Value](err, pos)
	}

	return reader.OkAt(p.record(v, pos), pos)
}

// tokenIsOrEOF reports whether a peeked result is the given kind; EOF is
// treated as "not terminated" so the caller raises UnterminatedList.
func tokenIsOrEOF(r reader.ResultAt[token.Token], k token.Kind) (bool, error) {
	switch r.Outcome {
	case reader.Ok:
		return r.Value.Kind == k, nil
	case reader.None:
		return false, ErrUnterminatedList
	default:
		return false, r.Err
	}
}

// parseList parses zero or more values until terminatorPred reports true (or
// an error/EOF occurs), without consuming the terminator. terminatorPred sees
// newline tokens; a newline it does not treat as a terminator is skipped.
func (p *Parser) parseList(terminatorPred func(reader.ResultAt[token.Token]) (bool, error)) reader.ResultAt[*value.Value] {
	var elements []*value.Value

	for {
		peeked := p.input.Peek()
		done, err := terminatorPred(peeked)
		if err != nil {
			return reader.ErrAt[*value.Value](err, peeked.Pos)
		}
		if done {
			return reader.OkAt(elementsToList(elements), peeked.Pos)
		}
		if peeked.Outcome == reader.Ok && peeked.Value.Kind == token.Newline {
			p.input.Next()
			continue
		}

		elemRes := p.ParseValue()
		if elemRes.Outcome != reader.Ok {
			return elemRes
		}
		elements = append(elements, elemRes.Value)
	}
}

// parseOperatorList parses `[ v op v ( op v )* ]`.
func (p *Parser) parseOperatorList(at reader.Position) reader.ResultAt[*value.Value] {
	firstRes := p.ParseValue()
	if firstRes.Outcome != reader.Ok {
		return firstRes
	}

	opTok := p.next()
	if opTok.Outcome != reader.Ok {
		return reader.Convert[token.Token, *value.Value](opTok)
	}
	if opTok.Value.Kind != token.IdentifierLit {
		return reader.ErrAt[*value.Value](&ErrUnexpectedToken{Got: opTok.Value}, opTok.Pos)
	}
	operator := opTok.Value.Text
	operatorValue := p.record(value.NewIdentifier(operator), opTok.Pos)

	secondRes := p.ParseValue()
	if secondRes.Outcome != reader.Ok {
		return secondRes
	}

	elements := []*value.Value{operatorValue, firstRes.Value, secondRes.Value}

	for {
		peeked := p.peek()
		switch peeked.Outcome {
		case reader.Err:
			return reader.Convert[token.Token, *value.Value](peeked)
		case reader.None:
			return reader.ErrAt[*value.Value](ErrUnterminatedList, peeked.Pos)
		}
		if peeked.Value.Kind == token.RBracket {
			break
		}

		nextOpTok := p.next()
		if nextOpTok.Outcome != reader.Ok {
			return reader.Convert[token.Token, *value.Value](nextOpTok)
		}
		if nextOpTok.Value.Kind != token.IdentifierLit {
			return reader.ErrAt[*value.Value](&ErrUnexpectedToken{Got: nextOpTok.Value}, nextOpTok.Pos)
		}
		if nextOpTok.Value.Text != operator {
			return reader.ErrAt[*value.Value](&ErrMismatchedOperator{First: operator, Got: nextOpTok.Value.Text}, nextOpTok.Pos)
		}

		nextValRes := p.ParseValue()
		if nextValRes.Outcome != reader.Ok {
			return nextValRes
		}
		elements = append(elements, nextValRes.Value)
	}

	closeRes := p.input.Next() // consume RBracket
	if closeRes.Outcome != reader.Ok {
		return reader.ErrAt[*value.Value](ErrUnterminatedList, at)
	}

	return reader.OkAt(p.record(elementsToList(elements), at), at)
}

// parseFormListItem parses one statement (a list of values) up to a
// separator matched by sepPred, consuming any run of trailing separators.
func (p *Parser) parseFormListItem(at reader.Position, sepPred func(reader.ResultAt[token.Token]) (bool, error)) reader.ResultAt[*value.Value] {
	listRes := p.parseList(sepPred)
	if listRes.Outcome != reader.Ok {
		return listRes
	}

	p.input.ItemsWhileSuccessfulIf(func(t token.Token) bool {
		return t.Kind == token.Semicolon || t.Kind == token.Newline
	})

	return reader.OkAt(listRes.Value, at)
}

// parseFormList parses `{ stmt (sep stmt)* }`.
func (p *Parser) parseFormList(at reader.Position) reader.ResultAt[*value.Value] {
	var lists []*value.Value

	for {
		peeked := p.input.Peek() // newlines are significant here: don't skip
		switch peeked.Outcome {
		case reader.Err:
			return reader.Convert[token.Token, *value.Value](peeked)
		case reader.None:
			return reader.ErrAt[*value.Value](ErrUnterminatedList, peeked.Pos)
		}
		if peeked.Value.Kind == token.RBrace {
			break
		}

		itemRes := p.parseFormListItem(peeked.Pos, func(t reader.ResultAt[token.Token]) (bool, error) {
			switch t.Outcome {
			case reader.Ok:
				k := t.Value.Kind
				return k == token.Semicolon || k == token.Newline || k == token.RBrace, nil
			case reader.None:
				return false, ErrUnterminatedList
			default:
				return false, t.Err
			}
		})
		if itemRes.Outcome != reader.Ok {
			return itemRes
		}
		if !itemRes.Value.IsNil() {
			lists = append(lists, p.record(itemRes.Value, peeked.Pos))
		}
	}

	closeRes := p.input.Next() // consume RBrace
	if closeRes.Outcome != reader.Ok {
		return reader.ErrAt[*value.Value](ErrUnterminatedList, at)
	}

	return reader.OkAt(p.record(elementsToList(lists), at), at)
}

// ParseImplicitFormList parses the top-level program: a form list without
// enclosing braces, where a literal '}' is a fatal error.
func (p *Parser) ParseImplicitFormList() reader.ResultAt[*value.Value] {
	var lists []*value.Value
	at := reader.Position{Line: 1, Column: 1}

	for {
		peeked := p.input.Peek()
		if peeked.Outcome == reader.Err {
			return reader.Convert[token.Token, *value.Value](peeked)
		}
		if peeked.Outcome == reader.None {
			break
		}
		at = peeked.Pos

		itemRes := p.parseFormListItem(at, func(t reader.ResultAt[token.Token]) (bool, error) {
			switch t.Outcome {
			case reader.Ok:
				k := t.Value.Kind
				if k == token.RBrace {
					return false, &ErrUnexpectedToken{Got: t.Value}
				}
				return k == token.Semicolon || k == token.Newline, nil
			case reader.None:
				return true, nil
			default:
				return false, t.Err
			}
		})
		if itemRes.Outcome != reader.Ok {
			return itemRes
		}
		if !itemRes.Value.IsNil() {
			lists = append(lists, p.record(itemRes.Value, at))
		}
	}

	return reader.OkAt(p.record(elementsToList(lists), at), at)
}

// ParseValue tokenizes source and parses exactly one value from it.
func ParseValue(source string) (*value.Value, *value.PositionMap, error) {
	p := New(token.New(reader.NewCharSource(strings.NewReader(source))))
	res := p.ParseValue()
	if res.Outcome != reader.Ok {
		return nil, nil, toPosError(res)
	}
	return res.Value, p.positions, nil
}

// ParseImplicitFormList tokenizes source and parses it as a top-level
// implicit form list.
func ParseImplicitFormList(source string) (*value.Value, *value.PositionMap, error) {
	p := New(token.New(reader.NewCharSource(strings.NewReader(source))))
	res := p.ParseImplicitFormList()
	if res.Outcome != reader.Ok {
		return nil, nil, toPosError(res)
	}
	return res.Value, p.positions, nil
}

func toPosError(res reader.ResultAt[*value.Value]) error {
	if res.Outcome == reader.None {
		return reader.NewPosError(errors.New("unexpected end of input"), res.Pos)
	}
	return reader.NewPosError(res.Err, res.Pos)
}
