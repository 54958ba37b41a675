package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/kitty/internal/harness"
)

// RunSummary totals every submission stored under one run ID.
type RunSummary struct {
	RunID       string `json:"run_id"`
	Submissions int    `json:"submissions"`
	TotalTests  int    `json:"total_tests"`
	TotalPassed int    `json:"total_passed"`
	TotalFailed int    `json:"total_failed"`
}

// StoredResult is a submission result as read back from the store.
type StoredResult struct {
	Seq    int64                     `json:"seq"`
	RunID  string                    `json:"run_id"`
	Digest string                    `json:"digest"`
	Result *harness.SubmissionResult `json:"result"`
}

// CaseRecord is one stored outcome of a case, located by run and
// submission.
type CaseRecord struct {
	RunID          string         `json:"run_id"`
	SubmissionName string         `json:"submission_name"`
	CategoryName   string         `json:"category_name"`
	Name           string         `json:"name"`
	Passed         bool           `json:"passed"`
	Actual         harness.Actual `json:"actual"`
	ResourceCost   *uint64        `json:"resource_cost,omitempty"`
}

// ListRuns returns every stored run in the order it was first written.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, COUNT(*), SUM(total_tests), SUM(total_passed), SUM(total_failed)
		FROM submission_results
		GROUP BY run_id
		ORDER BY MIN(seq) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Submissions, &r.TotalTests, &r.TotalPassed, &r.TotalFailed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns every submission result stored under runID, in write
// order. Returns an empty slice (not nil) for an unknown run.
func (s *Store) ReadRun(ctx context.Context, runID string) ([]StoredResult, error) {
	heads, err := s.readHeads(ctx, runID)
	if err != nil {
		return nil, err
	}

	// Each query is drained before the next starts: the pool holds a single
	// connection.
	for i := range heads {
		cats, err := s.readCategories(ctx, heads[i].Seq)
		if err != nil {
			return nil, err
		}
		if err := s.readCases(ctx, heads[i].Seq, cats); err != nil {
			return nil, err
		}
		heads[i].Result.CategoryResults = cats
	}
	return heads, nil
}

// ReadSubmission returns one stored submission result.
// Returns sql.ErrNoRows if the run has no result for that submission.
func (s *Store) ReadSubmission(ctx context.Context, runID, name string) (StoredResult, error) {
	results, err := s.ReadRun(ctx, runID)
	if err != nil {
		return StoredResult{}, err
	}
	for _, r := range results {
		if r.Result.SubmissionName == name {
			return r, nil
		}
	}
	return StoredResult{}, sql.ErrNoRows
}

// ReadCaseHistory returns every stored outcome of the case with the given
// content-addressed ID, across submissions and runs, in write order.
func (s *Store) ReadCaseHistory(ctx context.Context, caseID string) ([]CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.run_id, s.submission_name, c.category_name, r.name, r.passed, r.actual, r.resource_cost
		FROM case_results r
		JOIN submission_results s ON s.seq = r.submission_seq
		JOIN category_results c ON c.submission_seq = r.submission_seq AND c.position = r.category_position
		WHERE r.case_id = ?
		ORDER BY r.submission_seq ASC, r.category_position ASC, r.position ASC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query case history: %w", err)
	}
	defer rows.Close()

	records := []CaseRecord{}
	for rows.Next() {
		var (
			rec    CaseRecord
			actual string
			cost   sql.NullInt64
		)
		if err := rows.Scan(&rec.RunID, &rec.SubmissionName, &rec.CategoryName, &rec.Name, &rec.Passed, &actual, &cost); err != nil {
			return nil, fmt.Errorf("scan case history: %w", err)
		}
		if rec.Actual, err = unmarshalActual(actual); err != nil {
			return nil, err
		}
		rec.ResourceCost = unmarshalCost(cost)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case history: %w", err)
	}
	return records, nil
}

func (s *Store) readHeads(ctx context.Context, runID string) ([]StoredResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, run_id, digest, submission_name, submission_address,
		       total_tests, total_passed, total_failed, overall_pass_percentage
		FROM submission_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query submission results: %w", err)
	}
	defer rows.Close()

	heads := []StoredResult{}
	for rows.Next() {
		sr := StoredResult{Result: &harness.SubmissionResult{}}
		res := sr.Result
		if err := rows.Scan(
			&sr.Seq, &sr.RunID, &sr.Digest,
			&res.SubmissionName, &res.SubmissionAddress,
			&res.TotalTests, &res.TotalPassed, &res.TotalFailed, &res.OverallPassPercentage,
		); err != nil {
			return nil, fmt.Errorf("scan submission result: %w", err)
		}
		res.CategoryResults = []harness.CategoryResult{}
		heads = append(heads, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submission results: %w", err)
	}
	return heads, nil
}

func (s *Store) readCategories(ctx context.Context, seq int64) ([]harness.CategoryResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_name, pass_count, fail_count, pass_percentage
		FROM category_results
		WHERE submission_seq = ?
		ORDER BY position ASC
	`, seq)
	if err != nil {
		return nil, fmt.Errorf("query category results: %w", err)
	}
	defer rows.Close()

	cats := []harness.CategoryResult{}
	for rows.Next() {
		var c harness.CategoryResult
		if err := rows.Scan(&c.CategoryName, &c.PassCount, &c.FailCount, &c.PassPercentage); err != nil {
			return nil, fmt.Errorf("scan category result: %w", err)
		}
		c.Results = []harness.TestResult{}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category results: %w", err)
	}
	return cats, nil
}

// readCases fills the Results of cats, which must be in position order.
func (s *Store) readCases(ctx context.Context, seq int64, cats []harness.CategoryResult) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_position, case_id, name, description, operation, passed, expected, actual, error, resource_cost
		FROM case_results
		WHERE submission_seq = ?
		ORDER BY category_position ASC, position ASC
	`, seq)
	if err != nil {
		return fmt.Errorf("query case results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			catPos   int
			r        harness.TestResult
			expected sql.NullString
			actual   string
			cost     sql.NullInt64
		)
		if err := rows.Scan(&catPos, &r.CaseID, &r.Name, &r.Description, &r.Operation, &r.Passed, &expected, &actual, &r.Error, &cost); err != nil {
			return fmt.Errorf("scan case result: %w", err)
		}
		if catPos < 0 || catPos >= len(cats) {
			return fmt.Errorf("case %q references missing category %d", r.Name, catPos)
		}
		if r.Expected, err = unmarshalExpected(expected); err != nil {
			return err
		}
		if r.Actual, err = unmarshalActual(actual); err != nil {
			return err
		}
		r.ResourceCost = unmarshalCost(cost)
		cats[catPos].Results = append(cats[catPos].Results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate case results: %w", err)
	}
	return nil
}
