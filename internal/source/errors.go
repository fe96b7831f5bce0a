package source

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// FetchError indicates the remote end answered with a non-success status.
type FetchError struct {
	Status     int
	StatusText string
	Location   string
	// RetryAfter is populated from the Retry-After header when present.
	RetryAfter time.Duration
}

func (e *FetchError) Error() string {
	if e.StatusText != "" {
		return fmt.Sprintf("server returned %s", e.StatusText)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Retryable reports whether the status is worth another attempt (429/5xx).
func (e *FetchError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || (e.Status >= 500 && e.Status <= 599)
}

// UnreachableError indicates the transport failed before any response arrived.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("source unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("source unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func isRetryable(err error) bool {
	var ferr *FetchError
	if errors.As(err, &ferr) {
		return ferr.Retryable()
	}
	var uerr *UnreachableError
	if errors.As(err, &uerr) {
		return isRetryableNetErr(uerr.Err)
	}
	return false
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	// EOF or connection reset mid-response
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// parseRetryAfter interprets a Retry-After header as seconds or an HTTP date.
func parseRetryAfter(v string) (time.Duration, error) {
	if s, err := strconv.Atoi(v); err == nil {
		if s < 0 {
			s = 0
		}
		return time.Duration(s) * time.Second, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}
