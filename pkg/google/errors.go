package google

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// API-level status codes returned in the body of every Places response.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// APIError is returned for non-200 HTTP responses and for non-OK API statuses.
type APIError struct {
	HTTPStatus int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		if e.Message != "" {
			return fmt.Sprintf("google: status %s: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("google: status %s", e.Status)
	}
	return fmt.Sprintf("google: unexpected status %d: %s", e.HTTPStatus, e.Message)
}

// Transient reports whether the failure is a server-side or quota condition
// that could succeed later.
func (e *APIError) Transient() bool {
	switch e.Status {
	case StatusOverQueryLimit, StatusUnknownError:
		return true
	}
	return IsTransientHTTPStatus(e.HTTPStatus)
}

// checkStatus maps the body status of a 200 response to an error. OK and
// ZERO_RESULTS are both successful outcomes.
func checkStatus(status, message string) error {
	switch status {
	case StatusOK, StatusZeroResults, "":
		return nil
	}
	return &APIError{HTTPStatus: http.StatusOK, Status: status, Message: message}
}

// Answered reports whether the request reached the API and got a response
// body back: either no error, or an API-level status error on an HTTP 200.
// Transport failures and non-200 responses are not answered.
func Answered(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusOK
}

// IsTransient returns true if the error (or any error in its chain) is a
// transient APIError, or matches common network failure patterns.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"tls handshake timeout",
		"i/o timeout",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsTransientHTTPStatus returns true for HTTP statuses that are safe to retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
