package catalog

import (
	"fmt"
	"slices"

	"github.com/roach88/kitty/internal/ir"
)

// TestCase is a single declarative assertion against one operation.
// Values are set at catalog-definition time and never mutated.
type TestCase struct {
	// Name identifies the case within its category.
	Name string `json:"name"`

	// Description explains what the case checks.
	Description string `json:"description"`

	// Operation is the operation identifier invoked on a submission (e.g. "sumArray").
	Operation string `json:"operation"`

	// Args are passed to the operation in order.
	Args []ir.IRValue `json:"args"`

	// Expected is compared against the value returned by the probe invocation.
	Expected ir.IRValue `json:"expected"`
}

// TestCategory is a named, ordered collection of test cases.
// Identity is by Name; ID is the well-known identifier used by the
// registry's alias table (e.g. "StringTests").
type TestCategory struct {
	Name  string
	ID    string
	cases []TestCase
}

// NewCategory creates a category after validating its cases.
// The cases slice is copied so later changes by the caller are not observed.
func NewCategory(name, id string, cases []TestCase) (TestCategory, error) {
	if name == "" {
		return TestCategory{}, fmt.Errorf("category name is required")
	}
	for i, tc := range cases {
		if err := validateCase(tc); err != nil {
			return TestCategory{}, fmt.Errorf("category %q: cases[%d]: %w", name, i, err)
		}
	}
	return TestCategory{
		Name:  name,
		ID:    id,
		cases: cloneCases(cases),
	}, nil
}

// MustCategory is like NewCategory but panics on error.
// Used for the built-in catalogs, whose contents are fixed.
func MustCategory(name, id string, cases []TestCase) TestCategory {
	c, err := NewCategory(name, id, cases)
	if err != nil {
		panic(err)
	}
	return c
}

// Tests returns the cases in catalog order.
// The returned slice is a copy; cases themselves hold immutable values.
func (c TestCategory) Tests() []TestCase {
	return cloneCases(c.cases)
}

func cloneCases(cases []TestCase) []TestCase {
	out := make([]TestCase, len(cases))
	for i, tc := range cases {
		tc.Args = slices.Clone(tc.Args)
		out[i] = tc
	}
	return out
}

// Len returns the number of cases.
func (c TestCategory) Len() int {
	return len(c.cases)
}

// validateCase checks that required fields are present.
func validateCase(tc TestCase) error {
	if tc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if tc.Operation == "" {
		return fmt.Errorf("case %q: operation is required", tc.Name)
	}
	if tc.Expected == nil {
		return fmt.Errorf("case %q: expected is required", tc.Name)
	}
	for i, arg := range tc.Args {
		if arg == nil {
			return fmt.Errorf("case %q: args[%d] is empty", tc.Name, i)
		}
	}
	return nil
}
