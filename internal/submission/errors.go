package submission

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes invocation failures.
type ErrorCode string

const (
	// CodeMissingOperation indicates the submission has no such operation.
	CodeMissingOperation ErrorCode = "MISSING_OPERATION"

	// CodeArityMismatch indicates the wrong number of arguments.
	CodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// CodeTypeMismatch indicates an argument or result of the wrong kind.
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// CodeRuntimeFault indicates the operation failed or panicked.
	CodeRuntimeFault ErrorCode = "RUNTIME_FAULT"

	// CodeCostLimit indicates the operation exhausted its meter.
	CodeCostLimit ErrorCode = "COST_LIMIT"

	// CodeTimeout indicates the operation did not finish in time.
	CodeTimeout ErrorCode = "TIMEOUT"
)

// InvocationError is returned by Probe and Commit when an operation cannot
// produce a value. The harness records it as a failed case.
type InvocationError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Operation is the operation identifier that was invoked.
	Operation string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: %s (operation=%s)", e.Code, e.Message, e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Fault creates a RUNTIME_FAULT error. Operation functions use it to
// reject inputs they cannot handle, such as a negative exponent.
func Fault(format string, args ...any) *InvocationError {
	return &InvocationError{Code: CodeRuntimeFault, Message: fmt.Sprintf(format, args...)}
}

// TypeMismatch creates a TYPE_MISMATCH error.
func TypeMismatch(format string, args ...any) *InvocationError {
	return &InvocationError{Code: CodeTypeMismatch, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of an InvocationError anywhere in err's chain,
// or "" if there is none. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// ErrUnknownSubmission is wrapped by providers that do not know a name.
var ErrUnknownSubmission = errors.New("unknown submission")

// ProviderError is returned when a submission cannot be obtained or
// instantiated. Batch runs record it and skip the submission.
type ProviderError struct {
	// Name is the requested submission name.
	Name string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("submission %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError returns true if err is or wraps a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
