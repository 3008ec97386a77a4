package georender

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECANCELED   = "canceled"
	ECONNECTION = "connection"
	EFAILED     = "failed"
	EHTTP       = "http"
	EINTERNAL   = "internal"
	EINVALID    = "invalid"
	ENOTFOUND   = "not_found"
	ETIMEOUT    = "timeout"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("georender error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ConnectionError is returned when the service endpoint could not be reached
// (DNS failure, refused connection, transport timeout).
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// HTTPError is returned when the service answers with a non-success status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// FailedError is returned when the service reports a render as failed.
type FailedError struct {
	RenderID string
	Message  string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("render %s failed: %s", e.RenderID, e.Message)
}

// TimeoutError is returned when a render does not reach a terminal state
// within the configured number of status checks.
type TimeoutError struct {
	RenderID string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("render %s timed out after %d attempts", e.RenderID, e.Attempts)
}

// CanceledError is returned when the caller's context ends while a render
// is being created or awaited. RenderID is empty if the job was never created.
type CanceledError struct {
	RenderID string
	Err      error
}

func (e *CanceledError) Error() string {
	if e.RenderID == "" {
		return fmt.Sprintf("render canceled: %v", e.Err)
	}
	return fmt.Sprintf("render %s canceled: %v", e.RenderID, e.Err)
}

func (e *CanceledError) Unwrap() error { return e.Err }

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var (
		appErr     *Error
		connErr    *ConnectionError
		httpErr    *HTTPError
		failedErr  *FailedError
		timeoutErr *TimeoutError
		cancelErr  *CanceledError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.As(err, &cancelErr):
		return ECANCELED
	case errors.As(err, &connErr):
		return ECONNECTION
	case errors.As(err, &httpErr):
		return EHTTP
	case errors.As(err, &failedErr):
		return EFAILED
	case errors.As(err, &timeoutErr):
		return ETIMEOUT
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	var (
		connErr    *ConnectionError
		httpErr    *HTTPError
		failedErr  *FailedError
		timeoutErr *TimeoutError
		cancelErr  *CanceledError
	)
	switch {
	case errors.As(err, &cancelErr):
		return cancelErr.Error()
	case errors.As(err, &connErr):
		return connErr.Error()
	case errors.As(err, &httpErr):
		return httpErr.Error()
	case errors.As(err, &failedErr):
		return failedErr.Error()
	case errors.As(err, &timeoutErr):
		return timeoutErr.Error()
	}
	return "Internal error."
}
