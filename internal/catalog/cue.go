package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/kitty/internal/ir"
)

// CompileCategory parses a CUE value into a TestCategory.
// Uses the CUE SDK's Go API directly.
//
// The CUE value should be the category struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`category: extra: { ... }`)
//	cat, err := CompileCategory(v.LookupPath(cue.ParsePath("category.extra")))
//
// The struct label becomes the category ID unless an explicit id is given.
func CompileCategory(v cue.Value) (*TestCategory, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var label string
	if sels := v.Path().Selectors(); len(sels) > 0 {
		label = sels[len(sels)-1].String()
	}

	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}

	id := label
	if idVal := v.LookupPath(cue.ParsePath("id")); idVal.Exists() {
		id, err = idVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}

	casesVal := v.LookupPath(cue.ParsePath("cases"))
	if !casesVal.Exists() {
		return nil, &CompileError{Field: "cases", Message: "cases list is required", Pos: v.Pos()}
	}
	iter, err := casesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var cases []TestCase
	for i := 0; iter.Next(); i++ {
		tc, err := compileCase(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		cases = append(cases, tc)
	}
	if len(cases) == 0 {
		return nil, &CompileError{Field: "cases", Message: "at least one case is required", Pos: casesVal.Pos()}
	}

	cat, err := NewCategory(name, id, cases)
	if err != nil {
		return nil, &CompileError{Field: "cases", Message: err.Error(), Pos: v.Pos()}
	}
	return &cat, nil
}

// compileCase parses one case struct.
func compileCase(v cue.Value) (TestCase, error) {
	var tc TestCase
	var err error

	if tc.Name, err = requiredString(v, "name"); err != nil {
		return tc, err
	}
	if tc.Operation, err = requiredString(v, "operation"); err != nil {
		return tc, err
	}
	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		if tc.Description, err = descVal.String(); err != nil {
			return tc, formatCUEError(err)
		}
	}

	argsVal := v.LookupPath(cue.ParsePath("args"))
	if argsVal.Exists() {
		iter, err := argsVal.List()
		if err != nil {
			return tc, formatCUEError(err)
		}
		for iter.Next() {
			arg, err := compileValue(iter.Value())
			if err != nil {
				return tc, err
			}
			tc.Args = append(tc.Args, arg)
		}
	}
	if tc.Args == nil {
		tc.Args = []ir.IRValue{}
	}

	expVal := v.LookupPath(cue.ParsePath("expected"))
	if !expVal.Exists() {
		return tc, &CompileError{Field: "expected", Message: "expected is required", Pos: v.Pos()}
	}
	if tc.Expected, err = compileValue(expVal); err != nil {
		return tc, err
	}

	return tc, nil
}

// compileValue converts a concrete CUE value into an IRValue.
// Integers keep full precision; floats and other kinds are rejected.
func compileValue(v cue.Value) (ir.IRValue, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int(nil)
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.NewIRBigInt(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRString(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := ir.IRArray{}
		for iter.Next() {
			elem, err := compileValue(iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{Field: "type", Message: "floats are not allowed in test values", Pos: v.Pos()}
	default:
		return nil, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported value kind %s (want int, string or list)", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// requiredString looks up a required string field.
func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{Field: field, Message: field + " must not be empty", Pos: fv.Pos()}
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
