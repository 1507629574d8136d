package compiler

import (
	"fmt"

	"github.com/pianohacker/scarab/builtins"
	"github.com/pianohacker/scarab/reader"
	"github.com/pianohacker/scarab/value"
)

// ErrUnknownInternalFunction reports a call whose head identifier names
// neither a built-in nor (for a bare reference) a bound variable.
type ErrUnknownInternalFunction struct {
	Name string
}

func (e *ErrUnknownInternalFunction) Error() string {
	return fmt.Sprintf("unknown internal function: %s", e.Name)
}

// checker is the compiler's first pass: a type-checking walk over the
// program that resolves calls against the built-ins registry and threads
// the type each `set` binds through the rest of the program.
type checker struct {
	positions *value.PositionMap
	variables map[string]value.Type
}

func newChecker(positions *value.PositionMap) *checker {
	return &checker{positions: positions, variables: map[string]value.Type{}}
}

func (c *checker) posOf(v *value.Value) reader.Position {
	if p, ok := c.positions.Lookup(v); ok {
		return p
	}
	return reader.Position{}
}

func (c *checker) atPos(v *value.Value, err error) error {
	if err == nil {
		return nil
	}
	return reader.NewPosError(err, c.posOf(v))
}

// checkProgram type-checks every statement of a program: a list whose
// elements are themselves the (already list-wrapped) statements produced by
// the parser's form-list rule.
func (c *checker) checkProgram(program *value.Value) error {
	return program.IterList(func(stmt *value.Value) error {
		return c.checkStatement(stmt)
	})
}

// checkStatement type-checks one statement. A statement headed by an
// identifier is required to resolve as a call to a registered built-in;
// anything else is accepted as an inert literal, mirroring how a Cell
// argument that isn't headed by a known built-in is treated as literal data
// rather than an attempted call (see inferType).
func (c *checker) checkStatement(stmt *value.Value) error {
	if stmt.IsCell() {
		left, _, _ := stmt.TryCell()
		if name, err := left.TryIdentifier(); err == nil {
			if b, ok := builtins.Get(name); ok {
				_, err := c.checkCall(name, b, stmt)
				return err
			}
			return c.atPos(left, &ErrUnknownInternalFunction{Name: name})
		}
	}
	_, err := c.inferType(stmt)
	return err
}

// inferType computes the static type a value evaluates to, recursing into
// calls and failing on unbound identifier references. A Cell headed by an
// identifier that isn't a registered built-in is literal data (type Cell),
// not an attempted call; this matches the reference implementation's
// `debug "hi" 100 (abc)` behavior, where `(abc)` prints as itself rather
// than failing to resolve "abc" as a function.
func (c *checker) inferType(v *value.Value) (value.Type, error) {
	switch v.Type() {
	case value.Identifier:
		name := v.Text()
		if t, ok := c.variables[name]; ok {
			return t, nil
		}
		return 0, c.atPos(v, &ErrUnknownInternalFunction{Name: name})
	case value.Cell:
		left, _, _ := v.TryCell()
		if name, err := left.TryIdentifier(); err == nil {
			if b, ok := builtins.Get(name); ok {
				return c.checkCall(name, b, v)
			}
		}
		return value.Cell, nil
	default:
		return v.Type(), nil
	}
}

// checkCall validates and type-checks one call's arguments, returning its
// declared return type. `set` and `if` get bespoke handling since their
// signatures carry raw arguments with call-specific meaning (an identifier
// to bind, blocks of further statements) rather than plain values.
func (c *checker) checkCall(name string, b *builtins.Builtin, callExpr *value.Value) (value.Type, error) {
	elements, err := callExpr.ListSlice()
	if err != nil {
		return 0, c.atPos(callExpr, err)
	}
	args := elements[1:]

	if err := b.Signature.CheckArgumentsLength(len(args)); err != nil {
		return 0, c.atPos(callExpr, err)
	}

	switch name {
	case "set":
		varName, err := args[0].TryIdentifier()
		if err != nil {
			return 0, c.atPos(args[0], err)
		}
		rhsType, err := c.inferType(args[1])
		if err != nil {
			return 0, err
		}
		if err := b.Signature.SpecAtPosition(1).CheckAt(rhsType, 1); err != nil {
			return 0, c.atPos(args[1], err)
		}
		c.variables[varName] = rhsType
		return value.Nil, nil
	case "if":
		condType, err := c.inferType(args[0])
		if err != nil {
			return 0, err
		}
		if err := b.Signature.SpecAtPosition(0).CheckAt(condType, 0); err != nil {
			return 0, c.atPos(args[0], err)
		}
		for i := 1; i <= 2; i++ {
			if err := b.Signature.SpecAtPosition(i).CheckAt(args[i].Type(), i); err != nil {
				return 0, c.atPos(args[i], err)
			}
			if err := c.checkProgram(args[i]); err != nil {
				return 0, err
			}
		}
		return value.Nil, nil
	default:
		for i, arg := range args {
			spec := b.Signature.SpecAtPosition(i)
			actual := arg.Type()
			if !spec.Raw {
				t, err := c.inferType(arg)
				if err != nil {
					return 0, err
				}
				actual = t
			}
			if err := spec.CheckAt(actual, i); err != nil {
				return 0, c.atPos(arg, err)
			}
		}
		return b.Signature.ReturnType, nil
	}
}
