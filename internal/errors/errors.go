package apperrors

import "fmt"

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess      = 0 // Indicates successful execution (graceful shutdown).
	ExitErrorGeneric = 1 // Indicates a generic error.
	ExitErrorRuntime = 2 // Indicates a fatal I/O error while sampling.
	ExitErrorConfig  = 4 // Indicates an invalid command line (or help requested).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input. The detailed per-category diagnostics are written to the error
// stream by the validator; this error carries only the overall verdict.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// RuntimeError encapsulates a fatal in-loop sampling error while preserving
// the original cause. Any failure to read the system counters or to write the
// output file is wrapped in one of these; there is no recoverable category.
type RuntimeError struct {
	// Op names the operation that failed ("read counters", "write output").
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message naming the failed operation.
func (e RuntimeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e RuntimeError) Unwrap() error { return e.Cause }

// NewRuntimeError wraps a fatal sampling-loop error.
func NewRuntimeError(op string, cause error) error {
	return RuntimeError{Op: op, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}
