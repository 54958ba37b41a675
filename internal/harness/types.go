package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/kitty/internal/ir"
)

// ErrorActual is the Actual text recorded when the probe phase fails.
const ErrorActual = "Error"

// Actual is the observed outcome of a case: a canonical string or a
// sequence of canonical strings. It serializes as a JSON string or a JSON
// array of strings.
type Actual struct {
	// Text is the canonical string when Sequence is false.
	Text string

	// Items are the canonical element strings when Sequence is true.
	Items []string

	// Sequence reports which form is in use.
	Sequence bool
}

// ActualOf returns the canonical form of a returned value.
func ActualOf(v ir.IRValue) Actual {
	if arr, ok := v.(ir.IRArray); ok {
		return Actual{Items: ir.CanonicalList(arr), Sequence: true}
	}
	return Actual{Text: ir.Canonical(v)}
}

// ErrorOutcome returns the Actual recorded for a failed probe.
func ErrorOutcome() Actual {
	return Actual{Text: ErrorActual}
}

// String renders the scalar text, or the items joined with commas.
func (a Actual) String() string {
	if a.Sequence {
		return strings.Join(a.Items, ",")
	}
	return a.Text
}

// MarshalJSON implements json.Marshaler.
func (a Actual) MarshalJSON() ([]byte, error) {
	if a.Sequence {
		items := a.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(a.Text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Actual) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		if items == nil {
			items = []string{}
		}
		*a = Actual{Items: items, Sequence: true}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("actual must be a string or a string array: %w", err)
	}
	*a = Actual{Text: text}
	return nil
}

func (a Actual) clone() Actual {
	if a.Sequence {
		a.Items = slices.Clone(a.Items)
		if a.Items == nil {
			a.Items = []string{}
		}
	}
	return a
}

// canonical returns the value used in digests.
func (a Actual) canonical() any {
	if a.Sequence {
		items := make([]any, len(a.Items))
		for i, item := range a.Items {
			items[i] = item
		}
		return items
	}
	return a.Text
}

// TestResult is the outcome of one case against one submission.
type TestResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Operation   string `json:"operation"`

	// CaseID is the content-addressed identity of the case (see ir.CaseID).
	CaseID string `json:"case_id"`

	Passed   bool       `json:"passed"`
	Expected ir.IRValue `json:"expected"`
	Actual   Actual     `json:"actual"`

	// Error is set when the probe or commit phase failed.
	Error string `json:"error,omitempty"`

	// ResourceCost is the committed cost, nil when none was reported.
	ResourceCost *uint64 `json:"resource_cost,omitempty"`
}

// UnmarshalJSON decodes Expected through ir.UnmarshalIRValue so integers
// keep their full width.
func (r *TestResult) UnmarshalJSON(data []byte) error {
	type plain TestResult
	var aux struct {
		plain
		Expected json.RawMessage `json:"expected"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = TestResult(aux.plain)
	if len(aux.Expected) > 0 {
		v, err := ir.UnmarshalIRValue(aux.Expected)
		if err != nil {
			return fmt.Errorf("expected: %w", err)
		}
		r.Expected = v
	}
	return nil
}

// Clone returns a deep copy.
func (r TestResult) Clone() TestResult {
	r.Actual = r.Actual.clone()
	if r.ResourceCost != nil {
		c := *r.ResourceCost
		r.ResourceCost = &c
	}
	return r
}

// CategoryResult folds the results of one category.
type CategoryResult struct {
	CategoryName   string       `json:"category_name"`
	Results        []TestResult `json:"results"`
	PassCount      int          `json:"pass_count"`
	FailCount      int          `json:"fail_count"`
	PassPercentage float64      `json:"pass_percentage"`
}

// Clone returns a deep copy.
func (c CategoryResult) Clone() CategoryResult {
	c.Results = cloneResults(c.Results)
	return c
}

// SubmissionResult folds every category run against one submission.
type SubmissionResult struct {
	SubmissionName        string           `json:"submission_name"`
	SubmissionAddress     string           `json:"submission_address"`
	CategoryResults       []CategoryResult `json:"category_results"`
	TotalTests            int              `json:"total_tests"`
	TotalPassed           int              `json:"total_passed"`
	TotalFailed           int              `json:"total_failed"`
	OverallPassPercentage float64          `json:"overall_pass_percentage"`
}

// Clone returns a deep copy.
func (s *SubmissionResult) Clone() *SubmissionResult {
	out := *s
	out.CategoryResults = make([]CategoryResult, len(s.CategoryResults))
	for i, c := range s.CategoryResults {
		out.CategoryResults[i] = c.Clone()
	}
	return &out
}

// Passed reports whether every case passed.
func (s *SubmissionResult) Passed() bool {
	return s.TotalFailed == 0
}

func cloneResults(in []TestResult) []TestResult {
	out := make([]TestResult, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
