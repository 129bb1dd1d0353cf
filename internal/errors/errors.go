package errors

import (
	"errors"
	"fmt"
)

// Exit codes for blaze
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitConfigError  = 2
	ExitVCSError     = 3
	ExitStampError   = 4
	ExitLintError    = 5
	ExitComputeError = 6
)

// BlazeError is the base error type for blaze
type BlazeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *BlazeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BlazeError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *BlazeError) ExitCode() int {
	return e.Code
}

// New creates a new BlazeError
func New(code int, message string) *BlazeError {
	return &BlazeError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a BlazeError
func Wrap(code int, message string, cause error) *BlazeError {
	return &BlazeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *BlazeError {
	return Wrap(ExitConfigError, message, cause)
}

// VCSError returns an error for version-control operations
func VCSError(message string, cause error) *BlazeError {
	return Wrap(ExitVCSError, message, cause)
}

// NotARepo returns an error when the project root is not a git checkout
func NotARepo(root string) *BlazeError {
	return New(ExitVCSError, fmt.Sprintf("not a git repository: %s", root))
}

// StampError returns an error for version stamping operations
func StampError(message string, cause error) *BlazeError {
	return Wrap(ExitStampError, message, cause)
}

// LintError returns an error for lint configuration or check failures
func LintError(message string, cause error) *BlazeError {
	return Wrap(ExitLintError, message, cause)
}

// FindingsError returns the error used when lint checks produce findings
func FindingsError(count int) *BlazeError {
	return New(ExitLintError, fmt.Sprintf("%d lint finding(s)", count))
}

// ComputeError returns an error for expression evaluation failures
func ComputeError(message string, cause error) *BlazeError {
	return Wrap(ExitComputeError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *BlazeError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var blazeErr *BlazeError
	if errors.As(err, &blazeErr) {
		return blazeErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
