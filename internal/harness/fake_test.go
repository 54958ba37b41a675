package harness

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/kitty/internal/catalog"
	"github.com/roach88/kitty/internal/ir"
	"github.com/roach88/kitty/internal/submission"
)

// fakeSubmission answers probes from a fixed table.
type fakeSubmission struct {
	name      string
	values    map[string]ir.IRValue
	cost      *uint64
	commitErr error
	panicOp   string

	mu      sync.Mutex
	probes  []string
	commits []string
}

func (f *fakeSubmission) Name() string    { return f.name }
func (f *fakeSubmission) Address() string { return ir.Address(f.name) }

func (f *fakeSubmission) Probe(_ context.Context, op string, _ []ir.IRValue) (ir.IRValue, error) {
	f.mu.Lock()
	f.probes = append(f.probes, op)
	f.mu.Unlock()

	if op == f.panicOp {
		panic("fake panic")
	}
	v, ok := f.values[op]
	if !ok {
		return nil, &submission.InvocationError{
			Code:      submission.CodeMissingOperation,
			Operation: op,
			Message:   "not supported",
		}
	}
	return v, nil
}

func (f *fakeSubmission) Commit(_ context.Context, op string, _ []ir.IRValue) (submission.Receipt, error) {
	f.mu.Lock()
	f.commits = append(f.commits, op)
	f.mu.Unlock()

	if f.commitErr != nil {
		return submission.Receipt{}, f.commitErr
	}
	return submission.Receipt{Value: f.values[op], Cost: f.cost}, nil
}

// fakeProvider opens fakeSubmissions by name.
type fakeProvider map[string]func() submission.Submission

func (p fakeProvider) Open(name string) (submission.Submission, error) {
	mk, ok := p[name]
	if !ok {
		return nil, &submission.ProviderError{Name: name, Err: fmt.Errorf("%w: not in fake", submission.ErrUnknownSubmission)}
	}
	return mk(), nil
}

// recordingSink keeps every reported result.
type recordingSink struct {
	mu      sync.Mutex
	results []*SubmissionResult
	runIDs  []string
	err     error
}

func (s *recordingSink) Report(ctx context.Context, r *SubmissionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	s.runIDs = append(s.runIDs, RunIDFromContext(ctx))
	return s.err
}

func costOf(n uint64) *uint64 { return &n }

func tinyCategory() catalog.TestCategory {
	return catalog.MustCategory("Tiny", "TinyTests", []catalog.TestCase{
		{
			Name:        "Add",
			Description: "adds",
			Operation:   "add",
			Args:        []ir.IRValue{ir.NewIRInt(1), ir.NewIRInt(2)},
			Expected:    ir.NewIRInt(3),
		},
		{
			Name:        "Sort",
			Description: "sorts",
			Operation:   "sort",
			Args:        []ir.IRValue{ir.Ints(2, 1)},
			Expected:    ir.Ints(1, 2),
		},
		{
			Name:        "Missing",
			Description: "unsupported",
			Operation:   "nope",
			Args:        []ir.IRValue{},
			Expected:    ir.IRString("x"),
		},
	})
}

func tinySubmission(name string) *fakeSubmission {
	return &fakeSubmission{
		name: name,
		values: map[string]ir.IRValue{
			"add":  ir.NewIRInt(3),
			"sort": ir.Ints(2, 1),
		},
		cost: costOf(100),
	}
}

// irInts lets cmp compare IRInt values, which hide their big.Int.
var irInts = cmp.Comparer(func(a, b ir.IRInt) bool { return a.String() == b.String() })
