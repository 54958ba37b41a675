package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/kitty/internal/catalog"
	"github.com/roach88/kitty/internal/ir"
	"github.com/roach88/kitty/internal/registry"
	"github.com/roach88/kitty/internal/submission"
)

// Sink receives every completed submission result exactly once.
type Sink interface {
	Report(ctx context.Context, result *SubmissionResult) error
}

// ResolutionError is returned in strict mode when no requested category
// matched a name or an alias.
type ResolutionError struct {
	Requested []string
	Available []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no category matched %q (available: %q)", e.Requested, e.Available)
}

// SkippedSubmission records a submission the provider could not open.
type SkippedSubmission struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// BatchResult collects the results of one batch run, in submission order.
type BatchResult struct {
	RunID      string              `json:"run_id"`
	Resolution registry.Resolution `json:"-"`
	Results    []*SubmissionResult `json:"results"`
	Skipped    []SkippedSubmission `json:"skipped,omitempty"`

	// SinkErrors holds report failures. The affected results are still in
	// Results.
	SinkErrors []error `json:"-"`
}

// Passed reports whether every case of every submission passed and no
// submission was skipped.
func (b *BatchResult) Passed() bool {
	if len(b.Skipped) > 0 {
		return false
	}
	for _, r := range b.Results {
		if !r.Passed() {
			return false
		}
	}
	return true
}

// SinkError joins every report failure, or returns nil.
func (b *BatchResult) SinkError() error {
	return errors.Join(b.SinkErrors...)
}

// Runner sequences resolution, invocation, aggregation and reporting.
type Runner struct {
	registry    *registry.Registry
	sink        Sink
	logger      *slog.Logger
	ids         IDGenerator
	concurrency int
	strict      bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency sets how many submissions a batch runs at once.
// Values below 1 mean 1. Cases of one submission always run in order.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithStrictCategories makes a category fallback an error instead of a
// warning.
func WithStrictCategories(strict bool) RunnerOption {
	return func(r *Runner) {
		r.strict = strict
	}
}

// WithIDGenerator sets the run ID generator used by RunBatch.
func WithIDGenerator(g IDGenerator) RunnerOption {
	return func(r *Runner) {
		r.ids = g
	}
}

// NewRunner creates a runner. A nil sink drops results; a nil logger
// discards logs.
func NewRunner(reg *registry.Registry, sink Sink, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Runner{
		registry:    reg,
		sink:        sink,
		logger:      logger,
		ids:         UUIDv7Generator{},
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	return r
}

// RunSubmission runs the requested categories against sub and reports the
// result once.
//
// The result is always complete. The error is non-nil only when the sink
// failed, or in strict mode when no category matched (then the result is
// nil).
func (r *Runner) RunSubmission(ctx context.Context, sub submission.Submission, requested []string) (*SubmissionResult, error) {
	cats, err := r.resolve(requested)
	if err != nil {
		return nil, err
	}
	result := r.execute(ctx, sub, cats)
	return result, r.report(ctx, result)
}

// RunBatch opens and runs every named submission.
//
// Submissions the provider cannot open are logged and recorded in Skipped;
// they never stop the batch. With concurrency above 1 distinct submissions
// run in parallel, each on its own instance. The returned error is non-nil
// only in strict mode when no category matched.
func (r *Runner) RunBatch(ctx context.Context, provider submission.Provider, names []string, requested []string) (*BatchResult, error) {
	cats, res := r.registry.Resolve(requested)
	if res.FellBack && r.strict {
		return nil, r.resolutionError(requested)
	}

	runID := r.ids.Generate()
	ctx = ContextWithRunID(ctx, runID)
	r.logger.Info("batch started",
		"run_id", runID,
		"submissions", len(names),
		"categories", len(cats),
		"resolution", res.Tier.String(),
	)

	type outcome struct {
		result  *SubmissionResult
		skipped *SkippedSubmission
		sinkErr error
	}
	outcomes := make([]outcome, len(names))
	runOne := func(i int, name string) {
		sub, err := provider.Open(name)
		if err != nil {
			r.logger.Error("skipping submission", "submission", name, "error", err)
			outcomes[i].skipped = &SkippedSubmission{Name: name, Error: err.Error()}
			return
		}
		outcomes[i].result = r.execute(ctx, sub, cats)
		outcomes[i].sinkErr = r.report(ctx, outcomes[i].result)
	}

	if r.concurrency == 1 {
		for i, name := range names {
			runOne(i, name)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.concurrency)
		for i, name := range names {
			g.Go(func() error {
				runOne(i, name)
				return nil
			})
		}
		_ = g.Wait()
	}

	batch := &BatchResult{RunID: runID, Resolution: res}
	for _, o := range outcomes {
		if o.skipped != nil {
			batch.Skipped = append(batch.Skipped, *o.skipped)
			continue
		}
		batch.Results = append(batch.Results, o.result)
		if o.sinkErr != nil {
			batch.SinkErrors = append(batch.SinkErrors, o.sinkErr)
		}
	}

	r.logger.Info("batch finished",
		"run_id", runID,
		"completed", len(batch.Results),
		"skipped", len(batch.Skipped),
	)
	return batch, nil
}

func (r *Runner) resolve(requested []string) ([]catalog.TestCategory, error) {
	cats, res := r.registry.Resolve(requested)
	if res.FellBack && r.strict {
		return nil, r.resolutionError(requested)
	}
	return cats, nil
}

func (r *Runner) resolutionError(requested []string) error {
	return &ResolutionError{Requested: requested, Available: r.registry.Names()}
}

// execute runs every case of every category in order and aggregates.
func (r *Runner) execute(ctx context.Context, sub submission.Submission, cats []catalog.TestCategory) *SubmissionResult {
	catResults := make([]CategoryResult, 0, len(cats))
	for _, cat := range cats {
		tests := cat.Tests()
		results := make([]TestResult, 0, len(tests))
		for _, tc := range tests {
			res := RunCase(ctx, sub, tc)
			id, err := ir.CaseID(cat.Name, tc.Name, tc.Operation, tc.Args, tc.Expected)
			if err != nil {
				r.logger.Warn("cannot compute case id", "case", tc.Name, "error", err)
			}
			res.CaseID = id
			if res.Error != "" {
				r.logger.Debug("case failed with error",
					"submission", sub.Name(),
					"category", cat.Name,
					"case", tc.Name,
					"error", res.Error,
				)
			}
			results = append(results, res)
		}
		cr := AggregateCategory(cat.Name, results)
		r.logger.Info("category completed",
			"submission", sub.Name(),
			"category", cat.Name,
			"passed", cr.PassCount,
			"failed", cr.FailCount,
		)
		catResults = append(catResults, cr)
	}

	result := AggregateSubmission(sub.Name(), sub.Address(), catResults)
	return &result
}

func (r *Runner) report(ctx context.Context, result *SubmissionResult) error {
	if r.sink == nil {
		return nil
	}
	if err := r.sink.Report(ctx, result); err != nil {
		r.logger.Error("report failed", "submission", result.SubmissionName, "error", err)
		return fmt.Errorf("report %s: %w", result.SubmissionName, err)
	}
	return nil
}
