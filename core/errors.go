package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// ErrorKind is the closed set of failure categories the API client produces.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuthentication
	KindValidation
	KindNotFound
	KindRateLimit
	KindServer
	KindTimeout
)

// String returns the kind's wire-style label.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	case KindTimeout:
		return "timeout"
	}
	return "unknown"
}

// Sentinel errors for classification with errors.Is.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrServer         = errors.New("server error")
	ErrTimeout        = errors.New("timed out")
)

// DefaultErrorCode is used when the server supplied no machine code.
const DefaultErrorCode = "UNKNOWN_ERROR"

// Error is the typed failure returned by the transport and orchestrator.
// It is a plain data carrier: construction never fails, and it is created
// at the failure site and propagated unchanged to the caller.
type Error struct {
	Kind       ErrorKind
	Message    string
	Code       string
	StatusCode int
	Details    any    // decoded provider error payload, if any
	RequestID  string // x-request-id response header, if present
	RetryAfter string // raw Retry-After header; rate limit only
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("cadence: %s: %s (status=%d, code=%s, request_id=%s)",
			e.Kind, e.Message, e.StatusCode, e.Code, e.RequestID)
	}
	return fmt.Sprintf("cadence: %s: %s (status=%d, code=%s)",
		e.Kind, e.Message, e.StatusCode, e.Code)
}

// Unwrap returns the sentinel for the error's kind so callers can use
// errors.Is without inspecting the struct.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindAuthentication:
		return ErrAuthentication
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindRateLimit:
		return ErrRateLimited
	case KindServer:
		return ErrServer
	case KindTimeout:
		return ErrTimeout
	}
	return nil
}

// RetryAfterDelay parses the Retry-After value as delay seconds or an
// HTTP-date and returns the wait duration relative to now.
func (e *Error) RetryAfterDelay(now time.Time) (time.Duration, bool) {
	return parseRetryAfter(e.RetryAfter, now)
}

func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// kindForStatus maps an HTTP status code to an error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthentication
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// errorFromResponse builds a typed error from a non-2xx response.
func errorFromResponse(status int, body []byte, requestID, retryAfter string) *Error {
	message, code, details := parseErrorBody(body)
	if message == "" {
		message = http.StatusText(status)
	}
	if code == "" {
		code = DefaultErrorCode
	}
	kind := kindForStatus(status)
	e := &Error{
		Kind:       kind,
		Message:    message,
		Code:       code,
		StatusCode: status,
		Details:    details,
		RequestID:  requestID,
	}
	if kind == KindRateLimit {
		e.RetryAfter = retryAfter
	}
	return e
}

// parseErrorBody extracts a human message and machine code from whatever
// error envelope the server returned. The full decoded payload is kept as
// structured detail.
func parseErrorBody(body []byte) (message, code string, details any) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		if len(body) > 0 {
			message = string(body)
		}
		return message, "", nil
	}
	_ = json.Unmarshal(body, &details)

	r := gjson.ParseBytes(body)
	for _, path := range []string{"error.message", "message", "detail"} {
		if v := r.Get(path); v.Exists() && v.String() != "" {
			message = v.String()
			break
		}
	}
	for _, path := range []string{"error.code", "code", "error.type"} {
		if v := r.Get(path); v.Exists() && v.String() != "" {
			code = v.String()
			break
		}
	}
	return message, code, details
}

// networkError wraps a transport-level failure (DNS, connect, per-attempt
// timeout) as a retryable server-kind error with no HTTP status.
func networkError(err error) *Error {
	return &Error{
		Kind:    KindServer,
		Message: err.Error(),
		Code:    "NETWORK_ERROR",
	}
}
