package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/kitty/internal/harness"
	"github.com/roach88/kitty/internal/ir"
)

const ruleWidth = 80

// TextOptions controls optional parts of the text report.
type TextOptions struct {
	// ReportCost adds a "Resource Cost" line to every case that has one.
	ReportCost bool
}

// styler decorates report fragments. The plain styler returns them as is.
type styler interface {
	heading(s string) string
	pass(s string) string
	fail(s string) string
	muted(s string) string
}

type plain struct{}

func (plain) heading(s string) string { return s }
func (plain) pass(s string) string    { return s }
func (plain) fail(s string) string    { return s }
func (plain) muted(s string) string   { return s }

// WriteText renders a submission result as a plain text report.
func WriteText(w io.Writer, result *harness.SubmissionResult, opts TextOptions) error {
	return writeReport(w, result, opts, plain{})
}

// FormatText returns the plain text report of a submission result.
func FormatText(result *harness.SubmissionResult, opts TextOptions) string {
	var sb strings.Builder
	_ = WriteText(&sb, result, opts)
	return sb.String()
}

func writeReport(w io.Writer, r *harness.SubmissionResult, opts TextOptions, st styler) error {
	ew := &errWriter{w: w}
	double := strings.Repeat("=", ruleWidth)
	single := strings.Repeat("-", ruleWidth)

	ew.printf("%s\n", double)
	ew.printf("%s\n", st.heading(fmt.Sprintf("Test Results for %s (%s)", r.SubmissionName, r.SubmissionAddress)))
	ew.printf("%s\n\n", double)

	for _, cat := range r.CategoryResults {
		ew.printf("%s\n", st.heading("Category: "+cat.CategoryName))
		ew.printf("%s\n\n", single)

		for _, tr := range cat.Results {
			if tr.Passed {
				ew.printf("%s: %s\n", st.pass("✓ PASS"), tr.Name)
			} else {
				ew.printf("%s: %s\n", st.fail("✗ FAIL"), tr.Name)
			}
			ew.printf("  Description: %s\n", st.muted(tr.Description))
			ew.printf("  Expected: %s\n", expectedJSON(tr.Expected))
			ew.printf("  Actual: %s\n", actualJSON(tr.Actual))
			if tr.Error != "" {
				ew.printf("  Error: %s\n", st.fail(tr.Error))
			}
			if opts.ReportCost && tr.ResourceCost != nil {
				ew.printf("  Resource Cost: %d\n", *tr.ResourceCost)
			}
			ew.printf("\n")
		}

		ew.printf("Summary: %d/%d tests passed (%.2f%%)\n\n",
			cat.PassCount, len(cat.Results), cat.PassPercentage)
	}

	ew.printf("%s\n", double)
	summary := fmt.Sprintf("Overall: %d/%d tests passed (%.2f%%)",
		r.TotalPassed, r.TotalTests, r.OverallPassPercentage)
	if r.Passed() {
		summary = st.pass(summary)
	} else {
		summary = st.fail(summary)
	}
	ew.printf("%s\n", summary)
	ew.printf("%s\n", double)
	return ew.err
}

// expectedJSON renders an expectation as compact canonical JSON.
func expectedJSON(v ir.IRValue) string {
	if v == nil {
		return "null"
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return ir.Canonical(v)
	}
	return string(data)
}

// actualJSON renders an observed outcome as a JSON string or array.
func actualJSON(a harness.Actual) string {
	var data []byte
	var err error
	if a.Sequence {
		data, err = ir.MarshalCanonical(a.Items)
	} else {
		data, err = ir.MarshalCanonical(a.Text)
	}
	if err != nil {
		return a.String()
	}
	return string(data)
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
