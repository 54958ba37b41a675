package report

import (
	"context"
	"errors"

	"github.com/roach88/kitty/internal/harness"
)

// MultiSink reports to every sink in order. A failing sink does not stop
// the others; all failures are joined.
type MultiSink []harness.Sink

// Report implements harness.Sink.
func (m MultiSink) Report(ctx context.Context, result *harness.SubmissionResult) error {
	var errs []error
	for _, s := range m {
		if err := s.Report(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
