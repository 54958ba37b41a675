package harness

import (
	"context"
	"fmt"

	"github.com/roach88/kitty/internal/catalog"
	"github.com/roach88/kitty/internal/ir"
	"github.com/roach88/kitty/internal/submission"
)

// RunCase runs one case against sub and never fails: every problem is
// recorded in the returned result.
//
// The probe value decides pass or fail. A failed commit also fails the
// case; Actual still shows the probe value and Error carries the commit
// failure. ResourceCost is set only when the commit reports a cost.
func RunCase(ctx context.Context, sub submission.Submission, tc catalog.TestCase) TestResult {
	res := TestResult{
		Name:        tc.Name,
		Description: tc.Description,
		Operation:   tc.Operation,
		Expected:    tc.Expected,
	}

	got, err := probe(ctx, sub, tc)
	if err != nil {
		res.Actual = ErrorOutcome()
		res.Error = err.Error()
		return res
	}
	res.Actual = ActualOf(got)
	res.Passed = Matches(tc.Expected, got)

	receipt, err := commit(ctx, sub, tc)
	if err != nil {
		res.Passed = false
		res.Error = "commit failed: " + err.Error()
		return res
	}
	if receipt.Cost != nil {
		cost := *receipt.Cost
		res.ResourceCost = &cost
	}
	return res
}

// Matches compares an actual value to the expected one.
//
// A sequence expectation needs a sequence of the same length whose elements
// have equal canonical strings, in order. Any other expectation compares the
// canonical strings of both values.
func Matches(expected, actual ir.IRValue) bool {
	if exp, ok := expected.(ir.IRArray); ok {
		act, ok := actual.(ir.IRArray)
		if !ok || len(act) != len(exp) {
			return false
		}
		for i := range exp {
			if ir.Canonical(exp[i]) != ir.Canonical(act[i]) {
				return false
			}
		}
		return true
	}
	return ir.Canonical(actual) == ir.Canonical(expected)
}

// probe calls sub.Probe, turning a panic in a foreign Submission into an
// error.
func probe(ctx context.Context, sub submission.Submission, tc catalog.TestCase) (v ir.IRValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("probe panicked: %v", r)
		}
	}()
	v, err = sub.Probe(ctx, tc.Operation, tc.Args)
	if err == nil && v == nil {
		err = fmt.Errorf("probe of %s returned no value", tc.Operation)
	}
	return v, err
}

func commit(ctx context.Context, sub submission.Submission, tc catalog.TestCase) (r submission.Receipt, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = submission.Receipt{}, fmt.Errorf("commit panicked: %v", rec)
		}
	}()
	return sub.Commit(ctx, tc.Operation, tc.Args)
}
