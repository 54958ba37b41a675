package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
)

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Error codes reported by LoadDir.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // File read failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeMissingField = "E101" // Required field missing
	ErrCodeNoCases      = "E102" // Category declares no cases
	ErrCodeInvalidType  = "E104" // Invalid value type (e.g., float)
)

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadResult contains the categories loaded from a directory.
type LoadResult struct {
	Categories []TestCategory
	FileCount  int
}

// LoadDir loads every CUE catalog file under dir, in lexical path order.
// Categories keep their declaration order within a file.
// If mode is LoadModeFailFast, returns on the first error.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	result := &LoadResult{FileCount: len(files)}
	var errs []error

	for _, path := range files {
		cats, fileErrs := loadFile(ctx, path, mode)
		result.Categories = append(result.Categories, cats...)
		errs = append(errs, fileErrs...)
		if len(errs) > 0 && mode == LoadModeFailFast {
			return result, errs
		}
	}

	if len(result.Categories) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no categories found in catalogs"})
	}

	return result, errs
}

// loadFile compiles one CUE file and extracts its categories.
func loadFile(ctx *cue.Context, path string, mode LoadMode) ([]TestCategory, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, []error{convertCompileError(formatCUEError(err), path, ErrCodeBuildFailed)}
	}

	catsVal := value.LookupPath(cue.ParsePath("category"))
	if !catsVal.Exists() {
		return nil, nil
	}

	iter, err := catsVal.Fields()
	if err != nil {
		return nil, []error{convertCompileError(formatCUEError(err), path, ErrCodeBuildFailed)}
	}

	var cats []TestCategory
	var errs []error
	for iter.Next() {
		cat, err := CompileCategory(iter.Value())
		if err != nil {
			errs = append(errs, convertCompileError(err, "category."+iter.Label(), ErrCodeGeneric))
			if mode == LoadModeFailFast {
				return cats, errs
			}
			continue
		}
		cats = append(cats, *cat)
	}
	return cats, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths in lexical order.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error, context, fallbackCode string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    mapFieldToErrorCode(compileErr.Field, fallbackCode),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    fallbackCode,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// mapFieldToErrorCode maps a compile error field to an error code.
func mapFieldToErrorCode(field, fallback string) string {
	switch field {
	case "name", "operation", "expected":
		return ErrCodeMissingField
	case "cases":
		return ErrCodeNoCases
	case "type":
		return ErrCodeInvalidType
	case "cue":
		return ErrCodeBuildFailed
	default:
		return fallback
	}
}
