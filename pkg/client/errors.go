package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// User-facing messages for failures that carry no server payload.
const (
	NetworkErrorMessage   = "Network error. Please check your connection."
	SessionExpiredMessage = "Your session expired. Please sign in again."
)

// ErrSessionExpired is returned when a 401 could not be recovered because the
// token refresh failed. The session has been cleared by the time it is returned.
var ErrSessionExpired = errors.New("session expired")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Code       string // machine-readable code, e.g. "AUTH_ERROR"
	Message    string // the payload's "message" field
	ErrorText  string // the payload's "error" field
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorText
	}
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// TransportError is a request that never got a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message extracts a message suitable for showing to the user. Server errors
// yield their "message" field, then their "error" field, then fallback.
// Requests that got no response yield NetworkErrorMessage.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrSessionExpired) {
		return SessionExpiredMessage
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		if httpErr.ErrorText != "" {
			return httpErr.ErrorText
		}
		return fallback
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return NetworkErrorMessage
	}
	return fallback
}

// newHTTPError decodes an error payload of the shape
// {"code": "...", "message": "..." | ["...", ...], "error": "..."}.
// Bodies that are not JSON are kept verbatim in Body.
func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status, Body: body}
	var payload struct {
		Code    string          `json:"code"`
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return e
	}
	e.Code = payload.Code
	e.Message = flattenMessage(payload.Message)
	e.ErrorText = flattenMessage(payload.Error)
	return e
}

// flattenMessage accepts a JSON string or a list of strings (validation errors).
func flattenMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
