package compiler

import (
	"fmt"

	"github.com/pianohacker/scarab/value"
)

// Op tags which of the five instructions an Instruction encodes.
type Op int

const (
	OpAlloc Op = iota
	OpLoad
	OpCopy
	OpCall
	OpJumpIf
)

func (o Op) String() string {
	switch o {
	case OpAlloc:
		return "alloc"
	case OpLoad:
		return "load"
	case OpCopy:
		return "copy"
	case OpCall:
		return "call"
	case OpJumpIf:
		return "jump_if"
	default:
		return "op(?)"
	}
}

// Instruction is one entry in a compiled program. Only the fields relevant
// to Op are meaningful.
type Instruction struct {
	Op Op

	Count int32 // Alloc

	Dest  int         // Load, Copy
	Value *value.Value // Load

	Src int // Copy

	Ident   string // Call
	Base    int    // Call
	NumArgs int    // Call

	Cond     int   // JumpIf
	Distance int32 // JumpIf
}

// String renders an instruction using the disassembly grammar described in
// SPEC_FULL.md: "alloc N", "load d v", "copy d s", "call ident base n",
// "jump_if c d".
func (i Instruction) String() string {
	switch i.Op {
	case OpAlloc:
		return fmt.Sprintf("alloc %d", i.Count)
	case OpLoad:
		return fmt.Sprintf("load %d %s", i.Dest, i.Value)
	case OpCopy:
		return fmt.Sprintf("copy %d %d", i.Dest, i.Src)
	case OpCall:
		return fmt.Sprintf("call %s %d %d", i.Ident, i.Base, i.NumArgs)
	case OpJumpIf:
		return fmt.Sprintf("jump_if %d %d", i.Cond, i.Distance)
	default:
		return "???"
	}
}

// Disassemble renders a full instruction list, one instruction per line.
func Disassemble(instructions []Instruction) string {
	s := ""
	for _, i := range instructions {
		s += i.String() + "\n"
	}
	return s
}
