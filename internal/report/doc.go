// Package report delivers submission results: text rendering, result
// files, a styled console log, SQLite persistence and a cross-submission
// cost comparison.
//
// Every sink implements harness.Sink and is called once per submission.
package report
