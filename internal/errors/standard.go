// Package errors provides standardized error messaging for the Orizon front-end.
// Every error produced while resolving a command carries the exit status the
// process terminates with.
package errors

import (
	stderrors "errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryConfiguration  ErrorCategory = "CONFIGURATION"
	CategoryPlatform       ErrorCategory = "PLATFORM"
	CategoryUnknownCommand ErrorCategory = "UNKNOWN_COMMAND"
	CategoryDeprecated     ErrorCategory = "DEPRECATED"
	CategoryDelegated      ErrorCategory = "DELEGATED"
	CategoryUsage          ErrorCategory = "USAGE"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
	// Status is the process exit status this error maps to.
	Status int
	// Err is the underlying cause, if any.
	Err error
}

// Error returns the user-facing message. The category and caller are kept
// out of it so the text can be printed verbatim.
func (e *StandardError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *StandardError) Unwrap() error { return e.Err }

// Detail renders the error with its category and caller, for debug logs.
func (e *StandardError) Detail() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Error(), e.Caller)
}

// NewStandardError creates a new standardized error with exit status 1.
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
		Status:   1,
	}
}

// Configuration reports an invalid argument combination.
func Configuration(format string, args ...interface{}) *StandardError {
	return NewStandardError(CategoryConfiguration, "INVALID_ARGUMENTS",
		fmt.Sprintf(format, args...), nil)
}

// PlatformUnsupported reports a feature that is disabled on the given platform.
func PlatformUnsupported(feature, platform string) *StandardError {
	return NewStandardError(CategoryPlatform, "FEATURE_DISABLED",
		fmt.Sprintf("%s is currently disabled on %s", feature, platform),
		map[string]interface{}{"feature": feature, "platform": platform})
}

// UnknownCommand reports a command that did not resolve. message is the
// rendered suggestion text.
func UnknownCommand(command, message string) *StandardError {
	return NewStandardError(CategoryUnknownCommand, "UNKNOWN_COMMAND", message,
		map[string]interface{}{"command": command})
}

// Deprecated reports a retired command name together with its replacement notice.
func Deprecated(command, notice string) *StandardError {
	return NewStandardError(CategoryDeprecated, "DEPRECATED_COMMAND", notice,
		map[string]interface{}{"command": command})
}

// Usage reports a malformed request for a fixed response (help topics).
func Usage(format string, args ...interface{}) *StandardError {
	return NewStandardError(CategoryUsage, "USAGE", fmt.Sprintf(format, args...), nil)
}

// Delegated wraps a failure of a launched tool or backend. The child's exit
// status is adopted verbatim; a child that never started maps to status 1.
func Delegated(tool string, err error) *StandardError {
	e := NewStandardError(CategoryDelegated, "DELEGATED_FAILURE", "",
		map[string]interface{}{"tool": tool})
	e.Err = err

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		e.Code = "CHILD_EXIT"
		if code := exitErr.ExitCode(); code > 0 {
			e.Status = code
		}
	} else {
		e.Message = fmt.Sprintf("failed to launch %s: %v", tool, err)
	}

	return e
}

// IsSilent reports whether err only carries a child status. The child has
// already written its own diagnostics, so nothing should be printed for it.
func IsSilent(err error) bool {
	var se *StandardError
	if !stderrors.As(err, &se) {
		return false
	}
	return se.Category == CategoryDelegated && se.Code == "CHILD_EXIT"
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se *StandardError
	if stderrors.As(err, &se) && se.Status > 0 {
		return se.Status
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// CategoryOf returns the category of err, or "" for foreign errors.
func CategoryOf(err error) ErrorCategory {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Category
	}
	return ""
}
