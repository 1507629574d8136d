// Package vm implements Scarab's register-windowed virtual machine: a flat
// register file addressed by the compiler's absolute register indices, with
// built-in calls given a zero-based view onto the slice of registers
// starting at their call's base register.
package vm

import (
	"fmt"
	"io"

	"github.com/pianohacker/scarab/builtins"
	"github.com/pianohacker/scarab/compiler"
	"github.com/pianohacker/scarab/value"
)

// ErrUnknownInternalFunction reports a `call` instruction whose identifier
// the built-ins registry has no runtime thunk for. The compiler's checker
// rejects this before any instructions are emitted; this exists to guard
// instruction streams loaded directly (hand-written fixtures, a future
// disassemble/reassemble round trip) that bypass it.
type ErrUnknownInternalFunction struct {
	Name string
}

func (e *ErrUnknownInternalFunction) Error() string {
	return fmt.Sprintf("unknown internal function: %s", e.Name)
}

// PCError tags a runtime failure with the instruction offset that triggered
// it, per the "<message> (at PC 0x<hex>)" diagnostic format.
type PCError struct {
	Err error
	PC  int
}

func (e *PCError) Error() string {
	return fmt.Sprintf("%s (at PC 0x%x)", e.Err, e.PC)
}

func (e *PCError) Unwrap() error { return e.Err }

// Vm holds the flat register file, program counter, and the single active
// call window (built-ins are leaf functions and never issue a `call`
// themselves, so at most one window is ever open at a time).
type Vm struct {
	instructions []compiler.Instruction
	registers    []*value.Value
	pc           int

	windowOffset       int
	savedWindowOffsets []int

	debugOutput io.Writer
}

// New returns a Vm that writes `debug` output to debugOutput.
func New(debugOutput io.Writer) *Vm {
	return &Vm{debugOutput: debugOutput}
}

// Load installs a compiled instruction stream and resets the program
// counter, ready for Run.
func (vm *Vm) Load(instructions []compiler.Instruction) {
	vm.instructions = instructions
	vm.pc = 0
}

// Registers returns the final register file, for inspection in tests.
func (vm *Vm) Registers() []*value.Value {
	return vm.registers
}

// Run executes the loaded instruction stream to completion or the first
// runtime error.
func (vm *Vm) Run() error {
	for vm.pc < len(vm.instructions) {
		curPC := vm.pc
		instr := vm.instructions[vm.pc]
		vm.pc++

		if err := vm.step(instr); err != nil {
			return &PCError{Err: err, PC: curPC}
		}
	}
	return nil
}

func (vm *Vm) step(instr compiler.Instruction) error {
	switch instr.Op {
	case compiler.OpAlloc:
		vm.registers = make([]*value.Value, instr.Count)
		for i := range vm.registers {
			vm.registers[i] = value.NewNil()
		}
		return nil
	case compiler.OpLoad:
		vm.setAbs(instr.Dest, instr.Value)
		return nil
	case compiler.OpCopy:
		vm.setAbs(instr.Dest, vm.getAbs(instr.Src))
		return nil
	case compiler.OpCall:
		return vm.callInternal(instr.Ident, instr.Base, instr.NumArgs)
	case compiler.OpJumpIf:
		cond := vm.getAbs(instr.Cond)
		if cond.Type() == value.Boolean && cond.Boolean() {
			vm.pc += int(instr.Distance)
		}
		return nil
	default:
		return fmt.Errorf("unhandled instruction %v", instr)
	}
}

func (vm *Vm) getAbs(i int) *value.Value    { return vm.registers[vm.windowOffset+i] }
func (vm *Vm) setAbs(i int, v *value.Value) { vm.registers[vm.windowOffset+i] = v }

func (vm *Vm) pushWindowStartingAt(base int) {
	vm.savedWindowOffsets = append(vm.savedWindowOffsets, vm.windowOffset)
	vm.windowOffset = base
}

func (vm *Vm) popWindow() {
	n := len(vm.savedWindowOffsets)
	vm.windowOffset = vm.savedWindowOffsets[n-1]
	vm.savedWindowOffsets = vm.savedWindowOffsets[:n-1]
}

func (vm *Vm) callInternal(ident string, base, numArgs int) error {
	b, ok := builtins.Get(ident)
	if !ok || b.Run == nil {
		return &ErrUnknownInternalFunction{Name: ident}
	}

	vm.pushWindowStartingAt(base)
	defer vm.popWindow()

	return b.Run((*windowView)(vm), vm.debugOutput, numArgs)
}

// windowView implements builtins.Registers over the Vm's current window.
// It's a named type over *Vm rather than a struct wrapping one, since the
// window it views is always "whichever window is currently active" rather
// than one captured at construction time.
type windowView Vm

func (w *windowView) Get(i int) *value.Value    { return (*Vm)(w).getAbs(i) }
func (w *windowView) Set(i int, v *value.Value) { (*Vm)(w).setAbs(i, v) }
func (w *windowView) Len() int                  { return len((*Vm)(w).registers) - (*Vm)(w).windowOffset }
