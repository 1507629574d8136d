// Package types implements Scarab's argument/return type checking: the
// TypeSpec/ArgumentSpec/Signature machinery the compiler uses to validate
// calls against a built-in's declared shape.
package types

import (
	"fmt"

	"github.com/pianohacker/scarab/value"
)

// ErrExpectedType reports that a value's type tag didn't match what a
// TypeSpec required.
type ErrExpectedType struct {
	Expected, Actual value.Type
}

func (e *ErrExpectedType) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// ErrInvalidArgument wraps an ErrExpectedType (or other type error) with the
// zero-based position of the offending argument.
type ErrInvalidArgument struct {
	Position int
	Cause    error
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("argument %d invalid: %s", e.Position, e.Cause)
}

func (e *ErrInvalidArgument) Unwrap() error { return e.Cause }

// ErrTooManyArguments reports a call with more arguments than the signature
// accepts (and no rest argument to absorb the excess).
type ErrTooManyArguments struct {
	Expected, Actual int
}

func (e *ErrTooManyArguments) Error() string {
	return fmt.Sprintf("too many arguments; expected at most %d, got %d", e.Expected, e.Actual)
}

// ErrNotEnoughArguments reports a call with fewer arguments than the
// signature's fixed parameters require.
type ErrNotEnoughArguments struct {
	Expected, Actual int
}

func (e *ErrNotEnoughArguments) Error() string {
	return fmt.Sprintf("not enough arguments; expected at least %d, got %d", e.Expected, e.Actual)
}

// TypeSpec constrains the type tag a value at some position must carry.
type TypeSpec struct {
	any   bool
	base  value.Type
	list  bool
	isSet bool
}

// Any matches any type.
func Any() TypeSpec { return TypeSpec{any: true} }

// Base matches exactly t.
func Base(t value.Type) TypeSpec { return TypeSpec{base: t, isSet: true} }

// List matches value.Nil or value.Cell (i.e. anything that can head a
// cons-list spine, proper or not).
func List() TypeSpec { return TypeSpec{list: true} }

// Check validates actual against the spec, reporting an ErrExpectedType on
// mismatch.
func (s TypeSpec) Check(actual value.Type) error {
	switch {
	case s.any:
		return nil
	case s.list:
		if actual == value.Nil || actual == value.Cell {
			return nil
		}
		return &ErrExpectedType{Expected: value.Cell, Actual: actual}
	default:
		if actual == s.base {
			return nil
		}
		return &ErrExpectedType{Expected: s.base, Actual: actual}
	}
}

// ArgumentSpec wraps a TypeSpec with a Raw flag: a raw argument's static
// type tag is taken as-is rather than recursively evaluated and
// type-checked for evaluation (identifiers bound by `set`, unevaluated
// blocks consumed by `if`).
type ArgumentSpec struct {
	TypeSpec TypeSpec
	Raw      bool
}

// NewArgumentSpec builds a non-raw ArgumentSpec for spec.
func NewArgumentSpec(spec TypeSpec) ArgumentSpec {
	return ArgumentSpec{TypeSpec: spec}
}

// WithRaw returns a copy of a with Raw set.
func (a ArgumentSpec) WithRaw(raw bool) ArgumentSpec {
	a.Raw = raw
	return a
}

// CheckAt validates t against a's TypeSpec, wrapping any failure with the
// argument's position.
func (a ArgumentSpec) CheckAt(t value.Type, position int) error {
	if err := a.TypeSpec.Check(t); err != nil {
		return &ErrInvalidArgument{Position: position, Cause: err}
	}
	return nil
}

// Signature describes a built-in's call shape: a fixed sequence of
// ArgumentSpecs, an optional rest spec absorbing any further arguments, and
// a return type.
type Signature struct {
	ReturnType       value.Type
	ArgumentSpecs    []ArgumentSpec
	RestArgumentSpec *ArgumentSpec
}

// NewSignature returns a Signature with no arguments and a Nil return type;
// use the With* methods to build it up.
func NewSignature() Signature {
	return Signature{ReturnType: value.Nil}
}

// WithReturnType returns a copy of s with ReturnType set.
func (s Signature) WithReturnType(t value.Type) Signature {
	s.ReturnType = t
	return s
}

// WithArgument appends a fixed argument spec.
func (s Signature) WithArgument(spec ArgumentSpec) Signature {
	s.ArgumentSpecs = append(append([]ArgumentSpec{}, s.ArgumentSpecs...), spec)
	return s
}

// WithRestArgument sets the rest argument spec, absorbing any arguments
// beyond the fixed ones.
func (s Signature) WithRestArgument(spec ArgumentSpec) Signature {
	s.RestArgumentSpec = &spec
	return s
}

// CheckArgumentsLength validates the call's arity against the fixed
// argument count (and whether a rest argument is present to absorb excess).
func (s Signature) CheckArgumentsLength(actual int) error {
	expected := len(s.ArgumentSpecs)

	if actual < expected {
		return &ErrNotEnoughArguments{Expected: expected, Actual: actual}
	}
	if actual > expected && s.RestArgumentSpec == nil {
		return &ErrTooManyArguments{Expected: expected, Actual: actual}
	}
	return nil
}

// SpecAtPosition returns the ArgumentSpec governing the argument at the
// given zero-based position: one of the fixed specs, or the rest spec once
// position runs past them. Callers must have already validated arity with
// CheckArgumentsLength.
func (s Signature) SpecAtPosition(position int) ArgumentSpec {
	if position < len(s.ArgumentSpecs) {
		return s.ArgumentSpecs[position]
	}
	return *s.RestArgumentSpec
}
