package report

import (
	"github.com/roach88/kitty/internal/harness"
	"github.com/roach88/kitty/internal/ir"
)

func costPtr(n uint64) *uint64 { return &n }

// tinyResult is a three-case result with one pass, one wrong answer and
// one error.
func tinyResult(name string) *harness.SubmissionResult {
	cr := harness.AggregateCategory("Tiny", []harness.TestResult{
		{
			Name:         "Add",
			Description:  "adds",
			Operation:    "add",
			CaseID:       "case-add",
			Passed:       true,
			Expected:     ir.NewIRInt(3),
			Actual:       harness.Actual{Text: "3"},
			ResourceCost: costPtr(100),
		},
		{
			Name:         "Sort",
			Description:  "sorts",
			Operation:    "sort",
			CaseID:       "case-sort",
			Expected:     ir.Ints(1, 2),
			Actual:       harness.Actual{Items: []string{"2", "1"}, Sequence: true},
			ResourceCost: costPtr(120),
		},
		{
			Name:        "Missing",
			Description: "unsupported",
			Operation:   "nope",
			CaseID:      "case-nope",
			Expected:    ir.IRString("x"),
			Actual:      harness.ErrorOutcome(),
			Error:       "MISSING_OPERATION: not supported (operation=nope)",
		},
	})
	r := harness.AggregateSubmission(name, "0xabc", []harness.CategoryResult{cr})
	return &r
}

// costResult is a one-category result whose cases carry the given costs
// under stable case IDs.
func costResult(name string, costs ...*uint64) *harness.SubmissionResult {
	results := make([]harness.TestResult, len(costs))
	for i, c := range costs {
		results[i] = harness.TestResult{
			Name:         []string{"First", "Second", "Third"}[i],
			CaseID:       []string{"id-1", "id-2", "id-3"}[i],
			Passed:       true,
			Expected:     ir.NewIRInt(1),
			Actual:       harness.Actual{Text: "1"},
			ResourceCost: c,
		}
	}
	cr := harness.AggregateCategory("Costs", results)
	r := harness.AggregateSubmission(name, "0x0", []harness.CategoryResult{cr})
	return &r
}
