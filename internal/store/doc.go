// Package store provides SQLite-backed storage for submission results.
//
// Every stored submission result belongs to a run (one batch invocation of
// the runner) and keeps its categories and cases in their original order:
//   - submission_results: totals, address and content digest per submission
//   - category_results: per-category counts, keyed by position
//   - case_results: one row per case, with the case's content-addressed ID
//
// Rows are ordered by an insertion sequence, never by timestamps, so a
// result reads back exactly as it was written and its digest still matches.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
