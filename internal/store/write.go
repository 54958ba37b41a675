package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/kitty/internal/harness"
)

// ErrEmptyRunID is returned when a result is written without a run ID.
var ErrEmptyRunID = errors.New("run id is required")

// WriteSubmissionResult stores one submission result under runID in a
// single transaction.
//
// Writes are idempotent: a second write of the same submission within the
// same run is ignored, and the first write wins. The stored digest is the
// result's content hash at write time.
func (s *Store) WriteSubmissionResult(ctx context.Context, runID string, result *harness.SubmissionResult) error {
	if runID == "" {
		return fmt.Errorf("write submission result: %w", ErrEmptyRunID)
	}

	digest, err := harness.Digest(result)
	if err != nil {
		return fmt.Errorf("write submission result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write submission result: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO submission_results
		(run_id, submission_name, submission_address, digest, total_tests, total_passed, total_failed, overall_pass_percentage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, submission_name) DO NOTHING
	`,
		runID,
		result.SubmissionName,
		result.SubmissionAddress,
		digest,
		result.TotalTests,
		result.TotalPassed,
		result.TotalFailed,
		result.OverallPassPercentage,
	)
	if err != nil {
		return fmt.Errorf("write submission result: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write submission result: %w", err)
	}
	if n == 0 {
		return nil
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("write submission result: %w", err)
	}

	for ci, cat := range result.CategoryResults {
		if err := writeCategory(ctx, tx, seq, ci, cat); err != nil {
			return fmt.Errorf("write submission result %s: %w", result.SubmissionName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write submission result: commit: %w", err)
	}
	return nil
}

func writeCategory(ctx context.Context, tx *sql.Tx, seq int64, position int, cat harness.CategoryResult) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO category_results
		(submission_seq, position, category_name, pass_count, fail_count, pass_percentage)
		VALUES (?, ?, ?, ?, ?, ?)
	`, seq, position, cat.CategoryName, cat.PassCount, cat.FailCount, cat.PassPercentage)
	if err != nil {
		return fmt.Errorf("category %q: %w", cat.CategoryName, err)
	}

	for i, r := range cat.Results {
		if err := writeCase(ctx, tx, seq, position, i, r); err != nil {
			return fmt.Errorf("category %q: case %q: %w", cat.CategoryName, r.Name, err)
		}
	}
	return nil
}

func writeCase(ctx context.Context, tx *sql.Tx, seq int64, catPos, position int, r harness.TestResult) error {
	expected, err := marshalExpected(r.Expected)
	if err != nil {
		return err
	}
	actual, err := marshalActual(r.Actual)
	if err != nil {
		return err
	}
	cost, err := marshalCost(r.ResourceCost)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO case_results
		(submission_seq, category_position, position, case_id, name, description, operation, passed, expected, actual, error, resource_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		seq,
		catPos,
		position,
		r.CaseID,
		r.Name,
		r.Description,
		r.Operation,
		r.Passed,
		expected,
		actual,
		r.Error,
		cost,
	)
	return err
}
