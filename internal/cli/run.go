package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kitty/internal/catalog"
	"github.com/roach88/kitty/internal/config"
	"github.com/roach88/kitty/internal/harness"
	"github.com/roach88/kitty/internal/registry"
	"github.com/roach88/kitty/internal/report"
	"github.com/roach88/kitty/internal/store"
	"github.com/roach88/kitty/internal/submission"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath       string
	Submissions      []string
	SubmissionsDir   string
	CatalogDir       string
	Categories       []string
	OutputDir        string
	FileFormat       string
	NoFile           bool
	NoConsole        bool
	Database         string
	Concurrency      int
	StrictCategories bool
	CompareCosts     bool
	MaxUnits         uint64
	Timeout          time.Duration

	// IDGenerator overrides the run ID generator (for testing).
	// If nil, the runner uses UUIDv7 run IDs.
	IDGenerator harness.IDGenerator

	// Clock overrides the time source that names result files (for testing).
	Clock func() time.Time
}

// SubmissionSummary is one line of the run summary.
type SubmissionSummary struct {
	Name                  string  `json:"name"`
	Address               string  `json:"address"`
	Digest                string  `json:"digest"`
	TotalTests            int     `json:"total_tests"`
	TotalPassed           int     `json:"total_passed"`
	TotalFailed           int     `json:"total_failed"`
	OverallPassPercentage float64 `json:"overall_pass_percentage"`
}

// RunSummary is the data of the run command's JSON response.
type RunSummary struct {
	RunID       string                      `json:"run_id"`
	Resolution  string                      `json:"resolution"`
	Submissions []SubmissionSummary         `json:"submissions"`
	Skipped     []harness.SkippedSubmission `json:"skipped,omitempty"`
	Costs       []report.CostComparison     `json:"costs,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run test categories against submissions",
		Long: `Run the selected test categories against every submission.

Submissions come from the built-in definitions and from Go source files in
the submissions directory. Categories come from the built-in catalogs and
from CUE files in the catalog directory. Flags override the config file.

Exit codes:
  0 - Every case of every submission passed
  1 - A case failed or a submission could not be opened
  2 - Command error (bad config, unreadable catalog, report failure, etc.)

Examples:
  kitty run
  kitty run --submission ReferenceSubmission --category MathTests
  kitty run --config kitty.yaml --db results.db --compare-costs
  kitty run --format json --no-file`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKitty(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	f.StringArrayVarP(&opts.Submissions, "submission", "s", nil, "submission to run (repeatable)")
	f.StringVar(&opts.SubmissionsDir, "submissions-dir", "", "directory of scripted submissions")
	f.StringVar(&opts.CatalogDir, "catalog-dir", "", "directory of CUE catalogs")
	f.StringArrayVar(&opts.Categories, "category", nil, "category name or alias (repeatable)")
	f.StringVarP(&opts.OutputDir, "output-dir", "o", "", "directory for result files")
	f.StringVar(&opts.FileFormat, "file-format", "", "result file format (json|text)")
	f.BoolVar(&opts.NoFile, "no-file", false, "do not write result files")
	f.BoolVar(&opts.NoConsole, "no-console", false, "do not print reports")
	f.StringVar(&opts.Database, "db", "", "SQLite database to store results in")
	f.IntVar(&opts.Concurrency, "concurrency", 0, "submissions to run at once")
	f.BoolVar(&opts.StrictCategories, "strict-categories", false, "fail when no requested category matches")
	f.BoolVar(&opts.CompareCosts, "compare-costs", false, "print a resource cost comparison")
	f.Uint64Var(&opts.MaxUnits, "max-units", 0, "execution unit limit per invocation")
	f.DurationVar(&opts.Timeout, "timeout", 0, "time limit per scripted invocation")

	return cmd
}

// loadRunConfig reads the config file, if any, and applies flag overrides.
func loadRunConfig(opts *RunOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}

	f := cmd.Flags()
	if f.Changed("submission") {
		cfg.Submissions = opts.Submissions
	}
	if f.Changed("submissions-dir") {
		cfg.SubmissionsDir = opts.SubmissionsDir
	}
	if f.Changed("catalog-dir") {
		cfg.CatalogDir = opts.CatalogDir
	}
	if f.Changed("category") {
		cfg.Categories = opts.Categories
	}
	if f.Changed("output-dir") {
		cfg.Output.Path = opts.OutputDir
	}
	if f.Changed("file-format") {
		cfg.Output.Format = opts.FileFormat
	}
	if opts.NoFile {
		cfg.Output.File = false
	}
	if opts.NoConsole {
		cfg.Output.Console = false
	}
	if f.Changed("db") {
		cfg.Database = opts.Database
	}
	if f.Changed("concurrency") {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.StrictCategories {
		cfg.StrictCategories = true
	}
	if opts.CompareCosts {
		cfg.Cost.Compare = true
	}
	if f.Changed("max-units") {
		cfg.Cost.MaxUnits = opts.MaxUnits
	}
	if f.Changed("timeout") {
		cfg.InvocationTimeout = opts.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runKitty(opts *RunOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := loadRunConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	reg, err := buildRegistry(cfg.CatalogDir, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalogs", err)
	}

	provider := submission.Chain{
		submission.NewBuiltin(submission.WithMaxUnits(cfg.Cost.MaxUnits)),
		submission.NewScriptProvider(cfg.SubmissionsDir, logger,
			submission.WithTimeout(cfg.InvocationTimeout),
			submission.WithMaxUnits(cfg.Cost.MaxUnits),
		),
	}

	names := cfg.Submissions
	if len(names) == 0 {
		if names, err = provider.Names(); err != nil {
			return WrapExitError(ExitCommandError, "failed to list submissions", err)
		}
	}
	if len(names) == 0 {
		return NewExitError(ExitCommandError, "no submissions to run")
	}

	sinks, cleanup, err := buildSinks(cfg, opts, formatter, cmd.OutOrStdout(), logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up reporting", err)
	}
	defer cleanup()

	runnerOpts := []harness.RunnerOption{
		harness.WithConcurrency(cfg.Concurrency),
		harness.WithStrictCategories(cfg.StrictCategories),
	}
	if opts.IDGenerator != nil {
		runnerOpts = append(runnerOpts, harness.WithIDGenerator(opts.IDGenerator))
	}
	runner := harness.NewRunner(reg, sinks, logger, runnerOpts...)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	formatter.Printf("Starting Kitty run with %d submission(s)...\n", len(names))
	batch, err := runner.RunBatch(ctx, provider, names, cfg.Categories)
	if err != nil {
		var resErr *harness.ResolutionError
		if errors.As(err, &resErr) {
			return WrapExitError(ExitCommandError, "category selection failed", err)
		}
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	summary, err := summarize(batch)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to summarize results", err)
	}
	if cfg.Cost.Compare && len(batch.Results) > 1 {
		summary.Costs = report.CompareCosts(batch.Results)
	}

	if sinkErr := batch.SinkError(); sinkErr != nil {
		return outputRunError(formatter, summary, ExitCommandError, "E_REPORT_FAILED",
			"failed to report results", sinkErr)
	}
	if !batch.Passed() {
		return outputRunError(formatter, summary, ExitFailure, "E_CASES_FAILED",
			failureMessage(summary), nil)
	}

	if formatter.IsJSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: summary, RunID: summary.RunID})
	}
	return writeRunText(formatter, summary)
}

// buildRegistry returns the built-in categories plus every category in
// catalogDir.
func buildRegistry(catalogDir string, logger *slog.Logger) (*registry.Registry, error) {
	reg := registry.Default(logger)
	if catalogDir == "" {
		return reg, nil
	}
	result, errs := catalog.LoadDir(catalogDir, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	for _, cat := range result.Categories {
		reg.RegisterWithAlias(cat)
	}
	logger.Info("catalogs loaded", "dir", catalogDir, "files", result.FileCount, "categories", len(result.Categories))
	return reg, nil
}

// buildSinks assembles the configured sinks. cleanup closes the store, if
// one was opened.
func buildSinks(cfg config.Config, opts *RunOptions, formatter *OutputFormatter, out io.Writer, logger *slog.Logger) (harness.Sink, func(), error) {
	cleanup := func() {}
	textOpts := report.TextOptions{ReportCost: cfg.Cost.Report}

	var sinks report.MultiSink
	if cfg.Output.Console && !formatter.IsJSON() {
		sinks = append(sinks, report.NewConsoleSink(out, textOpts))
	}
	if cfg.Output.File {
		fileOpts := []report.FileOption{report.WithTextOptions(textOpts)}
		if opts.Clock != nil {
			fileOpts = append(fileOpts, report.WithClock(opts.Clock))
		}
		fs, err := report.NewFileSink(cfg.Output.Path, cfg.Output.Format, fileOpts...)
		if err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, fs)
	}
	if cfg.Database != "" {
		st, err := store.Open(cfg.Database)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() {
			if err := st.Close(); err != nil {
				logger.Error("error closing database", "error", err)
			}
		}
		sinks = append(sinks, report.NewStoreSink(st))
	}
	return sinks, cleanup, nil
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func summarize(batch *harness.BatchResult) (RunSummary, error) {
	summary := RunSummary{
		RunID:       batch.RunID,
		Resolution:  batch.Resolution.Tier.String(),
		Submissions: make([]SubmissionSummary, 0, len(batch.Results)),
		Skipped:     batch.Skipped,
	}
	for _, r := range batch.Results {
		digest, err := harness.Digest(r)
		if err != nil {
			return RunSummary{}, err
		}
		summary.Submissions = append(summary.Submissions, SubmissionSummary{
			Name:                  r.SubmissionName,
			Address:               r.SubmissionAddress,
			Digest:                digest,
			TotalTests:            r.TotalTests,
			TotalPassed:           r.TotalPassed,
			TotalFailed:           r.TotalFailed,
			OverallPassPercentage: r.OverallPassPercentage,
		})
	}
	return summary, nil
}

func failureMessage(s RunSummary) string {
	failed := 0
	for _, sub := range s.Submissions {
		if sub.TotalFailed > 0 {
			failed++
		}
	}
	return fmt.Sprintf("%d submission(s) with failing cases, %d skipped", failed, len(s.Skipped))
}

func outputRunError(f *OutputFormatter, s RunSummary, code int, errCode, message string, cause error) error {
	if f.IsJSON() {
		resp := CLIResponse{
			Status: "error",
			Data:   s,
			RunID:  s.RunID,
			Error:  &CLIError{Code: errCode, Message: message},
		}
		if cause != nil {
			resp.Error.Details = cause.Error()
		}
		if err := f.Encode(resp); err != nil {
			return err
		}
	} else if err := writeRunText(f, s); err != nil {
		return err
	}
	if cause != nil {
		return WrapExitError(code, message, cause)
	}
	return NewExitError(code, message)
}

func writeRunText(f *OutputFormatter, s RunSummary) error {
	if len(s.Costs) > 0 {
		f.Printf("\n")
		if err := report.WriteCostComparison(f.Writer, s.Costs); err != nil {
			return err
		}
	}

	f.Printf("\nRun %s\n", s.RunID)
	for _, sub := range s.Submissions {
		mark := "✓"
		if sub.TotalFailed > 0 {
			mark = "✗"
		}
		f.Printf("%s %s: %d/%d tests passed (%.2f%%)\n",
			mark, sub.Name, sub.TotalPassed, sub.TotalTests, sub.OverallPassPercentage)
	}
	for _, sk := range s.Skipped {
		f.Printf("✗ %s: skipped (%s)\n", sk.Name, sk.Error)
	}
	f.Printf("Kitty tests completed.\n")
	return nil
}
