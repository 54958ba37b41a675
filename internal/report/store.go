package report

import (
	"context"

	"github.com/roach88/kitty/internal/harness"
	"github.com/roach88/kitty/internal/store"
)

// StoreSink persists results into a SQLite store under the run ID carried
// by the context. Results reported outside a batch get a fresh run ID
// each.
type StoreSink struct {
	store *store.Store
	ids   harness.IDGenerator
}

// NewStoreSink creates a sink writing into st.
func NewStoreSink(st *store.Store) *StoreSink {
	return &StoreSink{store: st, ids: harness.UUIDv7Generator{}}
}

// Report implements harness.Sink.
func (s *StoreSink) Report(ctx context.Context, result *harness.SubmissionResult) error {
	runID := harness.RunIDFromContext(ctx)
	if runID == "" {
		runID = s.ids.Generate()
	}
	return s.store.WriteSubmissionResult(ctx, runID, result)
}
