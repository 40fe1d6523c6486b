package webclip

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
//
// Codes classify errors for programmatic handling. Every component-level
// operation converts its failures into one of these codes; nothing is
// allowed to panic or leak raw transport errors across a service boundary.
const (
	EINTERNAL           = "internal"            // unexpected condition
	EINVALID            = "invalid"             // validation failed
	ENOTFOUND           = "not_found"           // entity does not exist
	ENOTAUTHENTICATED   = "not_authenticated"   // no stored session
	EINVALIDCREDENTIALS = "invalid_credentials" // credentials rejected by the server
	ESESSIONEXPIRED     = "session_expired"     // server returned 401 mid-session
	EPERMISSION         = "permission"          // server returned 403
	ERATELIMIT          = "rate_limit"          // server returned 429
	ETIMEOUT            = "timeout"             // request deadline exceeded
	EUNAVAILABLE        = "unavailable"         // network failure or 5xx
	EINELIGIBLE         = "ineligible"          // document cannot be appended to
	EEXTRACTION         = "extraction"          // no content or unsupported mode
	EPDF                = "pdf"                 // page rasterization failed
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code classifies the error for programmatic handling.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("webclip error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the error, if available.
// Returns EINTERNAL for non-application errors and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if available.
// Returns a generic message for non-application errors and "" for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf returns a new Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// userMessages maps technical error message substrings to friendly text
// shown to the user. First match wins; the order goes from specific to
// general.
var userMessages = []struct {
	match   string
	message string
}{
	{"invalid API key", "The server rejected your API key. Check it and try again."},
	{"endpoint not found", "No API found at that address. Check the server URL."},
	{"not authenticated", "You are not signed in. Run auth first."},
	{"session expired", "Your session has expired. Please sign in again."},
	{"permission denied", "You don't have permission to modify this document."},
	{"rate limited", "The server is rate limiting requests. Wait a moment and retry."},
	{"timed out", "The server took too long to respond. Try again in a moment."},
	{"no editable fields", "This document has no editable field to append to."},
	{"form-based documents", "Form-based documents can't be clipped to. Pick a single-field document."},
	{"nothing selected", "Nothing is selected on the page. Select some text first."},
	{"network error", "Could not reach the server. Check your connection."},
	{"server error", "The server had a problem handling the request. Try again later."},
}

// UserMessage translates an error into text suitable for direct display.
// Unmapped errors fall back to a generic retry message so that no error is
// ever shown raw or silently swallowed.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := ErrorMessage(err)
	lower := strings.ToLower(msg)
	for _, m := range userMessages {
		if strings.Contains(lower, strings.ToLower(m.match)) {
			return m.message
		}
	}
	return "Something went wrong. Please try again."
}
