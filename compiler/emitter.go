package compiler

import (
	"github.com/pianohacker/scarab/builtins"
	"github.com/pianohacker/scarab/value"
)

// emitter is the compiler's second pass: a code-emission walk over the same
// tree the checker already validated, producing instructions into one or
// more buffers. It keeps its own register map from `set`-bound names to the
// register holding their value, built fresh as it re-walks the program in
// the same order the checker did.
type emitter struct {
	ra   *RegisterAllocator
	vars map[string]int
}

func newEmitter() *emitter {
	return &emitter{ra: NewRegisterAllocator(), vars: map[string]int{}}
}

func (e *emitter) compileProgram(out *[]Instruction, program *value.Value) error {
	return program.IterList(func(stmt *value.Value) error {
		_, err := e.compileValue(out, stmt)
		return err
	})
}

// compileValue lowers one value into out, returning the register its result
// (or, for a literal, itself) ends up in.
func (e *emitter) compileValue(out *[]Instruction, v *value.Value) (int, error) {
	if v.Type() == value.Cell {
		left, _, _ := v.TryCell()
		if name, err := left.TryIdentifier(); err == nil {
			switch name {
			case "set":
				return e.compileSet(out, v)
			case "if":
				return e.compileIf(out, v)
			default:
				if _, ok := builtins.Get(name); ok {
					return e.compileCall(out, name, v)
				}
			}
		}
		return e.compileLiteral(out, v)
	}

	if v.Type() == value.Identifier {
		if src, ok := e.vars[v.Text()]; ok {
			d := e.ra.Alloc()
			e.emit(out, Instruction{Op: OpCopy, Dest: d, Src: src})
			return d, nil
		}
	}

	return e.compileLiteral(out, v)
}

func (e *emitter) emit(out *[]Instruction, i Instruction) {
	*out = append(*out, i)
}

func (e *emitter) compileLiteral(out *[]Instruction, v *value.Value) (int, error) {
	d := e.ra.Alloc()
	e.emit(out, Instruction{Op: OpLoad, Dest: d, Value: v})
	return d, nil
}

func (e *emitter) compileSet(out *[]Instruction, v *value.Value) (int, error) {
	elements, err := v.ListSlice()
	if err != nil {
		return 0, err
	}
	args := elements[1:]

	varName, err := args[0].TryIdentifier()
	if err != nil {
		return 0, err
	}

	dest := e.ra.Current()
	e.vars[varName] = dest

	if _, err := e.compileValue(out, args[1]); err != nil {
		return 0, err
	}
	return dest, nil
}

// compileIf lowers a two-branch conditional into two conditional jumps, per
// the scheme in SPEC_FULL.md §4.6: the true and false blocks are compiled
// into side buffers first, so their lengths are known before the jump
// distances that skip over them are emitted.
func (e *emitter) compileIf(out *[]Instruction, v *value.Value) (int, error) {
	elements, err := v.ListSlice()
	if err != nil {
		return 0, err
	}
	args := elements[1:]

	e.ra.PushRange()

	cond, err := e.compileValue(out, args[0])
	if err != nil {
		return 0, err
	}

	var trueBuf, falseBuf []Instruction
	if err := e.compileBlock(&trueBuf, args[1]); err != nil {
		return 0, err
	}
	if err := e.compileBlock(&falseBuf, args[2]); err != nil {
		return 0, err
	}

	e.emit(out, Instruction{Op: OpJumpIf, Cond: cond, Distance: int32(len(falseBuf) + 2)})
	*out = append(*out, falseBuf...)

	scratch := e.ra.Alloc()
	e.emit(out, Instruction{Op: OpLoad, Dest: scratch, Value: value.NewBoolean(true)})
	e.emit(out, Instruction{Op: OpJumpIf, Cond: scratch, Distance: int32(len(trueBuf))})
	*out = append(*out, trueBuf...)

	e.ra.PopRange()
	return 0, nil
}

func (e *emitter) compileBlock(out *[]Instruction, block *value.Value) error {
	return block.IterList(func(stmt *value.Value) error {
		_, err := e.compileValue(out, stmt)
		return err
	})
}

func (e *emitter) compileCall(out *[]Instruction, name string, v *value.Value) (int, error) {
	elements, err := v.ListSlice()
	if err != nil {
		return 0, err
	}
	args := elements[1:]

	e.ra.PushRange()
	base := e.ra.Current()

	for _, arg := range args {
		if _, err := e.compileValue(out, arg); err != nil {
			return 0, err
		}
	}

	e.emit(out, Instruction{Op: OpCall, Ident: name, Base: base, NumArgs: len(args)})

	e.ra.PopRange()
	e.ra.ExtendTo(base)

	return base, nil
}
