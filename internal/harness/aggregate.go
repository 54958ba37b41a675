package harness

// AggregateCategory folds case results into a category summary.
// The result owns a copy of results.
func AggregateCategory(name string, results []TestResult) CategoryResult {
	pass := 0
	for _, r := range results {
		if r.Passed {
			pass++
		}
	}
	return CategoryResult{
		CategoryName:   name,
		Results:        cloneResults(results),
		PassCount:      pass,
		FailCount:      len(results) - pass,
		PassPercentage: percentage(pass, len(results)),
	}
}

// AggregateSubmission sums category summaries into a submission summary.
// Categories keep their order; the result owns copies of them.
func AggregateSubmission(name, address string, categories []CategoryResult) SubmissionResult {
	out := SubmissionResult{
		SubmissionName:    name,
		SubmissionAddress: address,
		CategoryResults:   make([]CategoryResult, len(categories)),
	}
	for i, c := range categories {
		out.CategoryResults[i] = c.Clone()
		out.TotalTests += len(c.Results)
		out.TotalPassed += c.PassCount
		out.TotalFailed += c.FailCount
	}
	out.OverallPassPercentage = percentage(out.TotalPassed, out.TotalTests)
	return out
}

// percentage returns part/total*100, or 0 when total is 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
