package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/kitty/internal/catalog"
	"github.com/roach88/kitty/internal/registry"
	"github.com/roach88/kitty/internal/submission"
)

func tinyRegistry() *registry.Registry {
	reg := registry.New(nil)
	reg.RegisterWithAlias(tinyCategory())
	return reg
}

func TestRunSubmission(t *testing.T) {
	sink := &recordingSink{}
	runner := NewRunner(tinyRegistry(), sink, nil)
	sub := tinySubmission("Fake")

	result, err := runner.RunSubmission(context.Background(), sub, nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Fake", result.SubmissionName)
	assert.Equal(t, sub.Address(), result.SubmissionAddress)
	assert.Equal(t, 3, result.TotalTests)
	assert.Equal(t, 1, result.TotalPassed)
	assert.Equal(t, 2, result.TotalFailed)

	require.Len(t, result.CategoryResults, 1)
	cr := result.CategoryResults[0]
	require.Len(t, cr.Results, 3)
	assert.Equal(t, []string{"Add", "Sort", "Missing"}, []string{cr.Results[0].Name, cr.Results[1].Name, cr.Results[2].Name})
	assert.True(t, cr.Results[0].Passed)
	assert.False(t, cr.Results[1].Passed)
	assert.Equal(t, Actual{Items: []string{"2", "1"}, Sequence: true}, cr.Results[1].Actual)
	assert.Equal(t, ErrorActual, cr.Results[2].Actual.Text)

	for _, r := range cr.Results {
		assert.Len(t, r.CaseID, 64)
	}

	require.Len(t, sink.results, 1, "sink is called exactly once")
	assert.Same(t, result, sink.results[0])
	assert.Equal(t, []string{"add", "sort", "nope"}, sub.probes, "cases run in catalog order")
	assert.Equal(t, []string{"add", "sort"}, sub.commits)
}

func TestRunSubmissionSinkFailure(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	runner := NewRunner(tinyRegistry(), sink, nil)

	result, err := runner.RunSubmission(context.Background(), tinySubmission("Fake"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, result, "result is complete even when reporting fails")
	assert.Equal(t, 3, result.TotalTests)
}

func TestRunSubmissionFallback(t *testing.T) {
	var buf bytes.Buffer
	reg := registry.New(slog.New(slog.NewTextHandler(&buf, nil)))
	reg.RegisterWithAlias(tinyCategory())

	result, err := NewRunner(reg, nil, nil).RunSubmission(context.Background(), tinySubmission("Fake"), []string{"Typo"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalTests, "falls back to every category")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestRunSubmissionStrict(t *testing.T) {
	runner := NewRunner(tinyRegistry(), &recordingSink{}, nil, WithStrictCategories(true))

	result, err := runner.RunSubmission(context.Background(), tinySubmission("Fake"), []string{"Typo"})
	require.Error(t, err)
	assert.Nil(t, result)

	var re *ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, []string{"Typo"}, re.Requested)
	assert.Equal(t, []string{"Tiny"}, re.Available)

	result, err = runner.RunSubmission(context.Background(), tinySubmission("Fake"), []string{"TinyTests"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalTests)
}

func TestRunSubmissionBuiltinCatalogs(t *testing.T) {
	runner := NewRunner(registry.Default(nil), nil, nil)
	sub, err := submission.NewBuiltin().Open(submission.NaiveName)
	require.NoError(t, err)

	result, err := runner.RunSubmission(context.Background(), sub, []string{catalog.MathTestsID, catalog.ArrayTestsID})
	require.NoError(t, err)
	assert.Equal(t, 20, result.TotalTests)
	assert.True(t, result.Passed())
	assert.Equal(t, 100.0, result.OverallPassPercentage)
	require.Len(t, result.CategoryResults, 2)
	assert.Equal(t, catalog.MathCategoryName, result.CategoryResults[0].CategoryName)
	assert.Equal(t, catalog.ArrayCategoryName, result.CategoryResults[1].CategoryName)
}

func TestSequentialRunsAreIndependent(t *testing.T) {
	runner := NewRunner(registry.Default(nil), nil, nil)
	provider := submission.NewBuiltin()

	subA, err := provider.Open(submission.ReferenceName)
	require.NoError(t, err)
	subB, err := provider.Open(submission.NaiveName)
	require.NoError(t, err)

	a, err := runner.RunSubmission(context.Background(), subA, nil)
	require.NoError(t, err)
	b, err := runner.RunSubmission(context.Background(), subB, nil)
	require.NoError(t, err)

	before := b.Clone()
	a.CategoryResults[0].Results[0].Name = "mutated"
	a.CategoryResults = nil

	if diff := cmp.Diff(before, b, irInts); diff != "" {
		t.Errorf("second run changed after mutating the first (-want +got):\n%s", diff)
	}
	assert.Len(t, b.CategoryResults[0].Results, 9)
}

func TestRunBatch(t *testing.T) {
	sink := &recordingSink{}
	runner := NewRunner(tinyRegistry(), sink, nil, WithIDGenerator(NewFixedGenerator("run-1")))
	provider := fakeProvider{
		"First":  func() submission.Submission { return tinySubmission("First") },
		"Second": func() submission.Submission { return tinySubmission("Second") },
	}

	batch, err := runner.RunBatch(context.Background(), provider, []string{"First", "Ghost", "Second"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "run-1", batch.RunID)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, "First", batch.Results[0].SubmissionName)
	assert.Equal(t, "Second", batch.Results[1].SubmissionName)

	require.Len(t, batch.Skipped, 1)
	assert.Equal(t, "Ghost", batch.Skipped[0].Name)
	assert.Contains(t, batch.Skipped[0].Error, "unknown submission")
	assert.False(t, batch.Passed())
	assert.NoError(t, batch.SinkError())

	assert.Len(t, sink.results, 2)
	assert.Equal(t, []string{"run-1", "run-1"}, sink.runIDs)
}

func TestRunBatchStrict(t *testing.T) {
	runner := NewRunner(tinyRegistry(), nil, nil, WithStrictCategories(true))
	batch, err := runner.RunBatch(context.Background(), fakeProvider{}, []string{"A"}, []string{"Nope"})
	require.Error(t, err)
	assert.Nil(t, batch)
}

func TestRunBatchSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("boom")}
	runner := NewRunner(tinyRegistry(), sink, nil, WithIDGenerator(NewFixedGenerator("run-1")))
	provider := fakeProvider{
		"Only": func() submission.Submission { return tinySubmission("Only") },
	}

	batch, err := runner.RunBatch(context.Background(), provider, []string{"Only"}, nil)
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)
	require.Len(t, batch.SinkErrors, 1)
	assert.ErrorContains(t, batch.SinkError(), "boom")
}

func TestRunBatchConcurrentKeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	runner := NewRunner(registry.Default(nil), sink, nil,
		WithConcurrency(4),
		WithIDGenerator(NewFixedGenerator("run-c")),
	)

	builtin := submission.NewBuiltin()
	var names []string
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("Sub%d", i)
		if i%2 == 0 {
			builtin.Register(name, submission.ReferenceOperations)
		} else {
			builtin.Register(name, submission.NaiveOperations)
		}
		names = append(names, name)
	}

	batch, err := runner.RunBatch(context.Background(), builtin, names, nil)
	require.NoError(t, err)
	require.Len(t, batch.Results, len(names))
	for i, r := range batch.Results {
		assert.Equal(t, names[i], r.SubmissionName)
		assert.Equal(t, 29, r.TotalTests)
		assert.True(t, r.Passed(), r.SubmissionName)
	}
	assert.True(t, batch.Passed())
	assert.Len(t, sink.results, len(names))
}

func TestRunBatchConcurrentMatchesSequential(t *testing.T) {
	names := []string{submission.ReferenceName, submission.NaiveName}

	seq, err := NewRunner(registry.Default(nil), nil, nil).
		RunBatch(context.Background(), submission.NewBuiltin(), names, nil)
	require.NoError(t, err)
	par, err := NewRunner(registry.Default(nil), nil, nil, WithConcurrency(2)).
		RunBatch(context.Background(), submission.NewBuiltin(), names, nil)
	require.NoError(t, err)

	require.Len(t, par.Results, 2)
	for i := range names {
		ds, err := Digest(seq.Results[i])
		require.NoError(t, err)
		dp, err := Digest(par.Results[i])
		require.NoError(t, err)
		assert.Equal(t, ds, dp, "runs are deterministic")
	}
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	a := UUIDv7Generator{}.Generate()
	b := UUIDv7Generator{}.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestRunIDContext(t *testing.T) {
	assert.Equal(t, "", RunIDFromContext(context.Background()))
	ctx := ContextWithRunID(context.Background(), "run-9")
	assert.Equal(t, "run-9", RunIDFromContext(ctx))
}
