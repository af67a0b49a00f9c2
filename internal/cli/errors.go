package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned through ExitError.
const (
	ExitCodeFetchFailed = 2
	ExitCodeInvalidArgs = 64
)

// ErrFetchFailed is wrapped by the ExitError returned when no CVs could be fetched.
var ErrFetchFailed = errors.New("could not fetch CVs")

// ExitError carries a process exit code through cobra's error return.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for err: 0 for nil, the ExitError code when
// one is wrapped, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
