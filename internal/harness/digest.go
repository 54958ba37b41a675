package harness

import (
	"strconv"

	"github.com/roach88/kitty/internal/ir"
)

// Digest returns the content hash of a submission result.
//
// The hash covers every field in canonical JSON form (percentages as
// shortest decimal strings), so aggregating the same inputs twice yields
// the same digest.
func Digest(s *SubmissionResult) (string, error) {
	return ir.HashDocument(ir.DomainSubmissionResult, canonicalSubmission(s))
}

func canonicalSubmission(s *SubmissionResult) map[string]any {
	cats := make([]any, len(s.CategoryResults))
	for i, c := range s.CategoryResults {
		results := make([]any, len(c.Results))
		for j, r := range c.Results {
			results[j] = canonicalResult(r)
		}
		cats[i] = map[string]any{
			"category_name":   c.CategoryName,
			"results":         results,
			"pass_count":      c.PassCount,
			"fail_count":      c.FailCount,
			"pass_percentage": formatPercent(c.PassPercentage),
		}
	}
	return map[string]any{
		"submission_name":         s.SubmissionName,
		"submission_address":      s.SubmissionAddress,
		"category_results":        cats,
		"total_tests":             s.TotalTests,
		"total_passed":            s.TotalPassed,
		"total_failed":            s.TotalFailed,
		"overall_pass_percentage": formatPercent(s.OverallPassPercentage),
	}
}

func canonicalResult(r TestResult) map[string]any {
	m := map[string]any{
		"name":        r.Name,
		"description": r.Description,
		"operation":   r.Operation,
		"case_id":     r.CaseID,
		"passed":      r.Passed,
		"actual":      r.Actual.canonical(),
	}
	if r.Expected != nil {
		m["expected"] = r.Expected
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	if r.ResourceCost != nil {
		m["resource_cost"] = *r.ResourceCost
	}
	return m
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
