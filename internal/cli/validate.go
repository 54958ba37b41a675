package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kitty/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Files      int               `json:"files"`
	Categories []CategorySummary `json:"categories,omitempty"`
	Errors     []ValidationIssue `json:"errors,omitempty"`
}

// CategorySummary describes one compiled category.
type CategorySummary struct {
	Name  string `json:"name"`
	ID    string `json:"id,omitempty"`
	Cases int    `json:"cases"`
}

// ValidationIssue is one catalog error with its position.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate CUE catalogs without running them",
		Long: `Compile every CUE catalog in a directory and report all errors.

Exit codes:
  0 - All catalogs compiled
  1 - One or more categories are invalid
  2 - The directory is missing or holds no CUE files`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := catalog.LoadDir(dir, catalog.LoadModeCollectAll)

	// Directory not found, no files, etc.
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *catalog.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, catalog.ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	result := ValidationResult{
		Valid: len(loadErrors) == 0,
		Files: loadResult.FileCount,
	}
	for _, cat := range loadResult.Categories {
		formatter.VerboseLog("Compiled category: %s", cat.Name)
		result.Categories = append(result.Categories, CategorySummary{
			Name:  cat.Name,
			ID:    cat.ID,
			Cases: cat.Len(),
		})
	}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, toIssue(err))
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func toIssue(err error) ValidationIssue {
	var loadErr *catalog.LoadError
	if !errors.As(err, &loadErr) {
		return ValidationIssue{Code: catalog.ErrCodeGeneric, Message: err.Error()}
	}
	issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
	if loadErr.Pos.IsValid() {
		issue.File = loadErr.Pos.Filename()
		issue.Line = loadErr.Pos.Line()
	}
	return issue
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	cases := 0
	for _, c := range result.Categories {
		cases += c.Cases
	}
	formatter.Printf("✓ All catalogs valid (%d file(s), %d categories, %d cases)\n",
		result.Files, len(result.Categories), cases)
	return nil
}

// outputValidateError reports a command-level failure (exit code 2).
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors reports invalid categories (exit code 1).
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	failed := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))

	if formatter.IsJSON() {
		first := result.Errors[0]
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: first.Code, Message: first.Message},
		}); err != nil {
			return err
		}
		return failed
	}

	formatter.Printf("✗ Validation failed\n\n")
	for _, issue := range result.Errors {
		if issue.Line > 0 {
			formatter.Printf("%s:%d\n", issue.File, issue.Line)
		}
		formatter.Printf("  %s: %s\n\n", issue.Code, issue.Message)
	}
	return failed
}
