package types_test

import (
	"strings"
	"testing"

	"github.com/pianohacker/scarab/types"
	"github.com/pianohacker/scarab/value"
)

func checkArgs(t *testing.T, sig types.Signature, args []value.Type) error {
	t.Helper()
	if err := sig.CheckArgumentsLength(len(args)); err != nil {
		return err
	}
	for i, typ := range args {
		if err := sig.SpecAtPosition(i).CheckAt(typ, i); err != nil {
			return err
		}
	}
	return nil
}

func TestAnyTakesAnyType(t *testing.T) {
	for _, typ := range []value.Type{value.Nil, value.Boolean, value.Integer, value.String} {
		if err := types.Any().Check(typ); err != nil {
			t.Errorf("Any().Check(%s): %v", typ, err)
		}
	}
}

func TestSpecificTypeTakesOnlyThatType(t *testing.T) {
	spec := types.Base(value.Boolean)

	if err := spec.Check(value.Boolean); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := spec.Check(value.Integer)
	if err == nil || !strings.Contains(err.Error(), "boolean") || !strings.Contains(err.Error(), "integer") {
		t.Errorf("got %v, want an ExpectedType error mentioning boolean and integer", err)
	}
}

func TestListTakesCellOrNil(t *testing.T) {
	spec := types.List()

	if err := spec.Check(value.Nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := spec.Check(value.Cell); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := spec.Check(value.Integer); err == nil {
		t.Error("expected an error for Integer")
	}
}

func TestFunctionTakingRestAcceptsAnyCount(t *testing.T) {
	sig := types.NewSignature().WithRestArgument(types.NewArgumentSpec(types.Any()))

	if err := checkArgs(t, sig, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := checkArgs(t, sig, []value.Type{value.Integer, value.Integer}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFunctionTakingRestEnforcesType(t *testing.T) {
	sig := types.NewSignature().WithRestArgument(types.NewArgumentSpec(types.Base(value.Integer)))

	if err := checkArgs(t, sig, []value.Type{value.Integer}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := checkArgs(t, sig, []value.Type{value.String})
	if err == nil || !strings.Contains(err.Error(), "argument 0") {
		t.Errorf("got %v, want an error naming argument 0", err)
	}
}

func TestFunctionTakingFixedAndRestRejectsLess(t *testing.T) {
	sig := types.NewSignature().
		WithArgument(types.NewArgumentSpec(types.Any())).
		WithRestArgument(types.NewArgumentSpec(types.Any()))

	if err := checkArgs(t, sig, []value.Type{value.Integer}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := checkArgs(t, sig, []value.Type{value.Integer, value.Integer}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := checkArgs(t, sig, nil)
	if err == nil || !strings.Contains(err.Error(), "not enough arguments") {
		t.Errorf("got %v, want a NotEnoughArguments error", err)
	}
}

func TestFunctionTakingFixedArgumentsRejectsMoreOrLess(t *testing.T) {
	sig := types.NewSignature().
		WithArgument(types.NewArgumentSpec(types.Any())).
		WithArgument(types.NewArgumentSpec(types.Any()))

	if err := checkArgs(t, sig, []value.Type{value.Integer, value.Integer}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := checkArgs(t, sig, []value.Type{value.Integer, value.Integer, value.Integer}); err == nil ||
		!strings.Contains(err.Error(), "too many arguments") {
		t.Errorf("got %v, want a TooManyArguments error", err)
	}

	if err := checkArgs(t, sig, []value.Type{value.Integer}); err == nil ||
		!strings.Contains(err.Error(), "not enough arguments") {
		t.Errorf("got %v, want a NotEnoughArguments error", err)
	}
}

func TestFunctionTakingMixedArgumentsEnforcesTypes(t *testing.T) {
	sig := types.NewSignature().
		WithArgument(types.NewArgumentSpec(types.Base(value.Integer))).
		WithArgument(types.NewArgumentSpec(types.Base(value.Boolean)))

	if err := checkArgs(t, sig, []value.Type{value.Integer, value.Boolean}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := checkArgs(t, sig, []value.Type{value.String, value.Boolean}); err == nil ||
		!strings.Contains(err.Error(), "argument 0") {
		t.Error("expected an InvalidArgument error for position 0")
	}

	if err := checkArgs(t, sig, []value.Type{value.Integer, value.String}); err == nil ||
		!strings.Contains(err.Error(), "argument 1") {
		t.Error("expected an InvalidArgument error for position 1")
	}
}

func TestArgumentSpecRawFlag(t *testing.T) {
	spec := types.NewArgumentSpec(types.Any())
	if spec.Raw {
		t.Error("expected Raw to default to false")
	}

	raw := spec.WithRaw(true)
	if !raw.Raw {
		t.Error("expected WithRaw(true) to set Raw")
	}
	if spec.Raw {
		t.Error("WithRaw should not mutate the receiver")
	}
}
