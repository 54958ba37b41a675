package report

import (
	"io"
	"slices"
	"strings"

	"github.com/roach88/kitty/internal/harness"
)

// CostEntry is the cost one submission reported for a case.
type CostEntry struct {
	Submission string `json:"submission"`
	Cost       uint64 `json:"cost"`
}

// CostComparison ranks the submissions that ran one case by cost,
// cheapest first.
type CostComparison struct {
	Category       string      `json:"category"`
	Case           string      `json:"case"`
	CaseID         string      `json:"case_id"`
	Entries        []CostEntry `json:"entries"`
	Savings        uint64      `json:"savings"`
	SavingsPercent float64     `json:"savings_percent"`
}

// Best returns the cheapest entry.
func (c CostComparison) Best() CostEntry { return c.Entries[0] }

// Worst returns the most expensive entry.
func (c CostComparison) Worst() CostEntry { return c.Entries[len(c.Entries)-1] }

// CompareCosts joins the cases of every result on their case ID and ranks
// submissions per case by ascending cost.
//
// Cases follow the order of the first result. A missing cost counts as 0;
// submissions that did not run a case are left out of its entries. Ties
// keep submission order. Savings is worst minus best, and SavingsPercent
// is Savings relative to worst (0 when worst is 0).
func CompareCosts(results []*harness.SubmissionResult) []CostComparison {
	if len(results) == 0 {
		return nil
	}

	index := make([]map[string]uint64, len(results))
	for i, r := range results {
		index[i] = make(map[string]uint64)
		for _, cat := range r.CategoryResults {
			for _, tr := range cat.Results {
				var cost uint64
				if tr.ResourceCost != nil {
					cost = *tr.ResourceCost
				}
				index[i][tr.CaseID] = cost
			}
		}
	}

	var out []CostComparison
	for _, cat := range results[0].CategoryResults {
		for _, tr := range cat.Results {
			c := CostComparison{Category: cat.CategoryName, Case: tr.Name, CaseID: tr.CaseID}
			for i, r := range results {
				cost, ok := index[i][tr.CaseID]
				if !ok {
					continue
				}
				c.Entries = append(c.Entries, CostEntry{Submission: r.SubmissionName, Cost: cost})
			}
			slices.SortStableFunc(c.Entries, func(a, b CostEntry) int {
				switch {
				case a.Cost < b.Cost:
					return -1
				case a.Cost > b.Cost:
					return 1
				}
				return 0
			})
			worst := c.Worst().Cost
			c.Savings = worst - c.Best().Cost
			if worst > 0 {
				c.SavingsPercent = float64(c.Savings) / float64(worst) * 100
			}
			out = append(out, c)
		}
	}
	return out
}

// WriteCostComparison renders comparisons grouped by category.
func WriteCostComparison(w io.Writer, comps []CostComparison) error {
	ew := &errWriter{w: w}
	double := strings.Repeat("=", ruleWidth)

	ew.printf("%s\n", double)
	ew.printf("Resource Cost Comparison\n")
	ew.printf("%s\n", double)

	category := ""
	for i, c := range comps {
		if i == 0 || c.Category != category {
			category = c.Category
			ew.printf("\nCategory: %s\n", category)
			ew.printf("%s\n", strings.Repeat("-", ruleWidth))
		}
		ew.printf("\nTest: %s\n", c.Case)
		for _, e := range c.Entries {
			ew.printf("  %s: %d\n", e.Submission, e.Cost)
		}
		if len(c.Entries) > 1 && c.Savings > 0 {
			ew.printf("  %s uses %d less (%.2f%% savings) than %s\n",
				c.Best().Submission, c.Savings, c.SavingsPercent, c.Worst().Submission)
		}
	}
	return ew.err
}

// FormatCostComparison returns the text rendering of comps.
func FormatCostComparison(comps []CostComparison) string {
	var sb strings.Builder
	_ = WriteCostComparison(&sb, comps)
	return sb.String()
}
