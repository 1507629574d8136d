// Package builtins implements Scarab's process-wide, read-only registry of
// built-in functions: each entry carries a Signature for type-checking and a
// runtime thunk invoked by the VM's `call` instruction.
package builtins

import (
	"fmt"
	"io"

	"github.com/pianohacker/scarab/types"
	"github.com/pianohacker/scarab/value"
)

// Registers is the narrow view of the VM's register window a built-in's
// thunk needs: indices are relative to the call's base register, so index 0
// is always the destination the built-in must write its result into.
//
// Defined here rather than in vm to avoid builtins importing vm (the VM
// must import builtins to dispatch `call`, so the dependency can only run
// one way).
type Registers interface {
	Get(i int) *value.Value
	Set(i int, v *value.Value)
	Len() int
}

// Builtin is one registry entry. Run is nil for built-ins the compiler
// lowers directly (`if`, `set`) — the VM never invokes their thunk.
type Builtin struct {
	Signature types.Signature
	Run       func(regs Registers, out io.Writer, numArgs int) error
}

func iterAsIntegers(regs Registers, numArgs int) ([]int64, error) {
	ints := make([]int64, numArgs)
	for i := 0; i < numArgs; i++ {
		v := regs.Get(i)
		if v.Type() != value.Integer {
			return nil, &value.ErrExpectedType{Expected: value.Integer, Actual: v.Type()}
		}
		ints[i] = v.Integer()
	}
	return ints, nil
}

var registry = map[string]*Builtin{
	"+": {
		Signature: types.NewSignature().
			WithReturnType(value.Integer).
			WithRestArgument(types.NewArgumentSpec(types.Base(value.Integer))),
		Run: func(regs Registers, _ io.Writer, numArgs int) error {
			ints, err := iterAsIntegers(regs, numArgs)
			if err != nil {
				return err
			}
			var sum int64
			for _, n := range ints {
				sum += n
			}
			regs.Set(0, value.NewInteger(sum))
			return nil
		},
	},
	"-": {
		Signature: types.NewSignature().
			WithReturnType(value.Integer).
			WithRestArgument(types.NewArgumentSpec(types.Base(value.Integer))),
		Run: func(regs Registers, _ io.Writer, numArgs int) error {
			ints, err := iterAsIntegers(regs, numArgs)
			if err != nil {
				return err
			}
			if len(ints) == 0 {
				regs.Set(0, value.NewInteger(0))
				return nil
			}
			result := ints[0]
			for _, n := range ints[1:] {
				result -= n
			}
			regs.Set(0, value.NewInteger(result))
			return nil
		},
	},
	"<": {
		Signature: types.NewSignature().
			WithReturnType(value.Boolean).
			WithArgument(types.NewArgumentSpec(types.Base(value.Integer))).
			WithArgument(types.NewArgumentSpec(types.Base(value.Integer))),
		Run: func(regs Registers, _ io.Writer, numArgs int) error {
			a, b := regs.Get(0), regs.Get(1)
			if a.Type() != value.Integer {
				return &value.ErrExpectedType{Expected: value.Integer, Actual: a.Type()}
			}
			if b.Type() != value.Integer {
				return &value.ErrExpectedType{Expected: value.Integer, Actual: b.Type()}
			}
			regs.Set(0, value.NewBoolean(a.Integer() < b.Integer()))
			return nil
		},
	},
	"debug": {
		Signature: types.NewSignature().
			WithReturnType(value.Nil).
			WithRestArgument(types.NewArgumentSpec(types.Any())),
		Run: func(regs Registers, out io.Writer, numArgs int) error {
			for i := 0; i < numArgs; i++ {
				if i > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprint(out, regs.Get(i).String())
			}
			fmt.Fprint(out, "\n")
			regs.Set(0, value.NewNil())
			return nil
		},
	},
	// if and set are registered for type-checking only; the compiler lowers
	// them directly and the VM never dispatches through their (nil) thunk.
	"if": {
		Signature: types.NewSignature().
			WithReturnType(value.Nil).
			WithArgument(types.NewArgumentSpec(types.Base(value.Boolean))).
			WithArgument(types.NewArgumentSpec(types.List()).WithRaw(true)).
			WithArgument(types.NewArgumentSpec(types.List()).WithRaw(true)),
	},
	"set": {
		Signature: types.NewSignature().
			WithReturnType(value.Nil).
			WithArgument(types.NewArgumentSpec(types.Base(value.Identifier)).WithRaw(true)).
			WithArgument(types.NewArgumentSpec(types.Any())),
	},
}

// Get looks up a built-in by name.
func Get(name string) (*Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

// IsLowered reports whether name names a built-in the compiler lowers
// directly rather than dispatching through the VM's `call` instruction.
func IsLowered(name string) bool {
	return name == "if" || name == "set"
}
