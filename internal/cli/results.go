package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/kitty/internal/harness"
	"github.com/roach88/kitty/internal/report"
	"github.com/roach88/kitty/internal/store"
)

// ResultsOptions holds flags for the results command.
type ResultsOptions struct {
	*RootOptions
	Database   string
	RunID      string
	Submission string
	CaseID     string
	Full       bool
}

// StoredSubmission is one stored result with its digest check.
type StoredSubmission struct {
	Name        string `json:"name"`
	Digest      string `json:"digest"`
	Verified    bool   `json:"verified"`
	TotalTests  int    `json:"total_tests"`
	TotalPassed int    `json:"total_passed"`
	TotalFailed int    `json:"total_failed"`
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect results stored by earlier runs",
		Long: `Read results from a results database.

Without --run or --case, lists every stored run. With --run, lists the
submissions of that run and checks each stored digest against the result
read back. With --case, shows every stored outcome of one case ID.

Exit codes:
  0 - Results read and every digest matched
  1 - A stored digest did not match
  2 - Command error (missing database, unknown run, etc.)

Examples:
  kitty results --db results.db
  kitty results --db results.db --run 0192... --full
  kitty results --db results.db --case 3f2a...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "results database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to show")
	cmd.Flags().StringVar(&opts.Submission, "submission", "", "only show this submission (with --run)")
	cmd.Flags().StringVar(&opts.CaseID, "case", "", "case ID to show the history of")
	cmd.Flags().BoolVar(&opts.Full, "full", false, "print full reports (with --run)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runResults(opts *ResultsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.RunID != "" && opts.CaseID != "" {
		return NewExitError(ExitCommandError, "--run and --case are mutually exclusive")
	}
	if opts.Submission != "" && opts.RunID == "" {
		return NewExitError(ExitCommandError, "--submission requires --run")
	}

	// store.Open would create a missing file.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.CaseID != "":
		return showCaseHistory(ctx, st, opts.CaseID, formatter)
	case opts.RunID != "":
		return showRun(ctx, st, opts, formatter)
	default:
		return showRuns(ctx, st, formatter)
	}
}

func showRuns(ctx context.Context, st *store.Store, f *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if f.IsJSON() {
		return f.Success(runs)
	}
	if len(runs) == 0 {
		f.Printf("No runs stored\n")
		return nil
	}
	for _, r := range runs {
		f.Printf("%s  %d submission(s)  %d/%d tests passed\n",
			r.RunID, r.Submissions, r.TotalPassed, r.TotalTests)
	}
	return nil
}

func showRun(ctx context.Context, st *store.Store, opts *ResultsOptions, f *OutputFormatter) error {
	var stored []store.StoredResult
	if opts.Submission != "" {
		one, err := st.ReadSubmission(ctx, opts.RunID, opts.Submission)
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("no result for %q in run %s", opts.Submission, opts.RunID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read result", err)
		}
		stored = []store.StoredResult{one}
	} else {
		all, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		if len(all) == 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown run %s", opts.RunID))
		}
		stored = all
	}

	subs := make([]StoredSubmission, 0, len(stored))
	mismatched := 0
	for _, sr := range stored {
		digest, err := harness.Digest(sr.Result)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to hash stored result", err)
		}
		ok := digest == sr.Digest
		if !ok {
			mismatched++
		}
		subs = append(subs, StoredSubmission{
			Name:        sr.Result.SubmissionName,
			Digest:      sr.Digest,
			Verified:    ok,
			TotalTests:  sr.Result.TotalTests,
			TotalPassed: sr.Result.TotalPassed,
			TotalFailed: sr.Result.TotalFailed,
		})
	}

	if f.IsJSON() {
		data := any(subs)
		if opts.Full {
			data = stored
		}
		if err := f.Encode(CLIResponse{Status: "ok", Data: data, RunID: opts.RunID}); err != nil {
			return err
		}
	} else {
		for i, s := range subs {
			if opts.Full {
				if err := report.WriteText(f.Writer, stored[i].Result, report.TextOptions{ReportCost: true}); err != nil {
					return err
				}
			}
			mark := "✓"
			if !s.Verified {
				mark = "✗"
			}
			f.Printf("%s %s  %d/%d tests passed  digest %s\n",
				mark, s.Name, s.TotalPassed, s.TotalTests, s.Digest)
		}
	}

	if mismatched > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d stored digest(s) did not match", mismatched))
	}
	return nil
}

func showCaseHistory(ctx context.Context, st *store.Store, caseID string, f *OutputFormatter) error {
	records, err := st.ReadCaseHistory(ctx, caseID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read case history", err)
	}
	if f.IsJSON() {
		if records == nil {
			records = []store.CaseRecord{}
		}
		return f.Success(records)
	}
	if len(records) == 0 {
		f.Printf("No results for case %s\n", caseID)
		return nil
	}
	for _, r := range records {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		cost := "-"
		if r.ResourceCost != nil {
			cost = fmt.Sprintf("%d", *r.ResourceCost)
		}
		f.Printf("%s  %s  %s/%s  %s  actual=%s  cost=%s\n",
			r.RunID, r.SubmissionName, r.CategoryName, r.Name, status, r.Actual.String(), cost)
	}
	return nil
}
