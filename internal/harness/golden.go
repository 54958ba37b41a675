package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/kitty/internal/ir"
)

// AssertGolden compares the canonical JSON of a submission result against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, result *SubmissionResult) {
	t.Helper()

	data, err := ir.MarshalCanonical(canonicalSubmission(result))
	if err != nil {
		t.Fatalf("canonical JSON: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
