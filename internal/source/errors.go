package source

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrFetchFailed matches every error produced by a fetcher in this package.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrNotFound matches a detail fetch for an id the source does not have.
	ErrNotFound = errors.New("CV not found")
	// ErrBodyTooLarge is the cause of a read failure on an oversized response.
	ErrBodyTooLarge = errors.New("response exceeds size limit")
)

// FetchError describes a failed fetch. Op is one of "http", "read",
// "decode", "lookup" or "breaker".
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := "fetch " + e.Op
	if e.URL != "" {
		msg += " " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetchFailed, or ErrNotFound for an HTTP 404.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetchFailed:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}
