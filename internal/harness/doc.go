// Package harness runs conformance cases against submissions and folds the
// outcomes into results.
//
// # Protocol
//
// RunCase executes one case in two phases. The probe phase calls the
// operation without committing state and captures its value. The commit
// phase calls it again against the live state and records the resource
// cost when the submission reports one. Any failure becomes data: the
// result is marked failed, Actual is "Error" (probe failures) and Error
// carries the message. Nothing escapes RunCase.
//
// Comparison is shape-aware. A sequence expectation requires a sequence of
// equal length whose elements match by canonical string. Anything else is
// compared by canonical string, so integers of any width compare by their
// decimal digits.
//
// # Aggregation
//
// AggregateCategory and AggregateSubmission are pure folds:
//
//	PassCount + FailCount == len(Results)
//	PassPercentage == 0 when there are no results
//
// Ordering always mirrors the resolved categories and the catalog order of
// cases.
//
// # Runs
//
// Runner.RunSubmission resolves categories through the registry, runs every
// case in order, aggregates bottom-up and hands the result to the Sink
// exactly once. Runner.RunBatch does the same for many submissions, skips
// the ones the provider cannot open and can run distinct submissions in
// parallel.
package harness
