// Package compiler lowers a parsed Scarab program into the register-windowed
// instruction set the vm package interprets.
//
// Compilation runs in two passes over the same tree, mirroring the
// reference implementation's two-visitor design: a checking pass resolves
// every call against the built-ins registry and threads `set`-bound types
// through the rest of the program, then an independent emission pass
// re-walks the tree to produce instructions, keeping its own register map
// built up in the same order. Running checking to completion before any
// code is emitted means a type error anywhere in the program is reported
// without a partial instruction stream.
package compiler

import (
	"github.com/pianohacker/scarab/value"
)

// Compile type-checks and lowers program (as produced by
// parser.ParseImplicitFormList) into a flat instruction list, prefixed with
// the `alloc` instruction sizing its register file.
func Compile(program *value.Value, positions *value.PositionMap) ([]Instruction, error) {
	if err := newChecker(positions).checkProgram(program); err != nil {
		return nil, err
	}

	e := newEmitter()
	var body []Instruction
	if err := e.compileProgram(&body, program); err != nil {
		return nil, err
	}

	instructions := make([]Instruction, 0, len(body)+1)
	instructions = append(instructions, Instruction{Op: OpAlloc, Count: int32(e.ra.RegisterCount())})
	instructions = append(instructions, body...)
	return instructions, nil
}
