package report

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitty/internal/harness"
	"github.com/roach88/kitty/internal/store"
	"github.com/roach88/kitty/internal/testutil"
)

func TestFileStem(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.FixedZone("X", 3600))
	assert.Equal(t, "Sub-2024-03-09T13-05-07.123Z", FileStem("Sub", ts))
}

func TestFileSinkJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	clock := testutil.NewStepClock(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC), time.Second)
	sink, err := NewFileSink(dir, OutputJSON, WithClock(clock.Now))
	require.NoError(t, err)

	result := tinyResult("Golden")
	require.NoError(t, sink.Report(context.Background(), result))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Golden-2024-03-09T14-05-07.000Z.json", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var decoded harness.SubmissionResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Golden", decoded.SubmissionName)
	assert.Equal(t, 3, decoded.TotalTests)
	require.Len(t, decoded.CategoryResults, 1)
	assert.Equal(t, []string{"2", "1"}, decoded.CategoryResults[0].Results[1].Actual.Items)

	want, err := harness.Digest(result)
	require.NoError(t, err)
	got, err := harness.Digest(&decoded)
	require.NoError(t, err)
	assert.Equal(t, want, got, "result file decodes to the same content")
}

func TestFileSinkText(t *testing.T) {
	dir := t.TempDir()
	clock := testutil.NewStepClock(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC), time.Second)
	sink, err := NewFileSink(dir, OutputText, WithClock(clock.Now), WithTextOptions(TextOptions{ReportCost: true}))
	require.NoError(t, err)

	require.NoError(t, sink.Report(context.Background(), tinyResult("A")))
	require.NoError(t, sink.Report(context.Background(), tinyResult("B")))

	for _, name := range []string{
		"A-2024-03-09T14-05-07.000Z.json",
		"A-2024-03-09T14-05-07.000Z.txt",
		"B-2024-03-09T14-05-08.000Z.json",
		"B-2024-03-09T14-05-08.000Z.txt",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	text, err := os.ReadFile(filepath.Join(dir, "A-2024-03-09T14-05-07.000Z.txt"))
	require.NoError(t, err)
	assert.Equal(t, FormatText(tinyResult("A"), TextOptions{ReportCost: true}), string(text))
}

func TestNewFileSinkRejectsUnknownFormat(t *testing.T) {
	_, err := NewFileSink(t.TempDir(), "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

type stubSink struct {
	calls int
	err   error
}

func (s *stubSink) Report(context.Context, *harness.SubmissionResult) error {
	s.calls++
	return s.err
}

func TestMultiSink(t *testing.T) {
	a := &stubSink{err: errors.New("a failed")}
	b := &stubSink{}
	c := &stubSink{err: errors.New("c failed")}

	err := MultiSink{a, b, c}.Report(context.Background(), tinyResult("X"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a failed")
	assert.Contains(t, err.Error(), "c failed")
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls, "later sinks still run")
	assert.Equal(t, 1, c.calls)

	assert.NoError(t, MultiSink{b}.Report(context.Background(), tinyResult("X")))
	assert.NoError(t, MultiSink(nil).Report(context.Background(), tinyResult("X")))
}

func TestStoreSink(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sink := NewStoreSink(st)
	ctx := harness.ContextWithRunID(context.Background(), "run-7")
	require.NoError(t, sink.Report(ctx, tinyResult("A")))
	require.NoError(t, sink.Report(ctx, tinyResult("B")))

	stored, err := st.ReadRun(ctx, "run-7")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "A", stored[0].Result.SubmissionName)
	assert.Equal(t, "B", stored[1].Result.SubmissionName)

	// Outside a batch every report gets its own run.
	require.NoError(t, sink.Report(context.Background(), tinyResult("C")))
	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
