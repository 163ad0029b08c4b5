package idc

import (
	"fmt"
	"net/http"
)

// Local error codes reported in error envelopes. Remote failures carry the
// HTTP status code instead.
const (
	CodeEmptyPayload        = 600
	CodeInvalidOutputFormat = 610
	CodeTransportInit       = 620
	CodeTransportFailure    = 630
	CodeEmptyResponse       = 640
	CodeInternal            = 650

	CodeInvalidPrimaryKey         = 720
	CodeInvalidPhotoIDFormat      = 730
	CodeInvalidBadgePreviewFormat = 740
	CodeEmptyRecordData           = 750
)

// Error is a failure surfaced to callers as an error envelope.
type Error struct {
	// Code is either one of the Code* constants or a remote HTTP status.
	Code int

	// Message is the human-readable reason, without the envelope prefix.
	Message string

	// Err is the underlying cause, when there is one.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("idc error %d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("idc error %d: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRemote reports whether the code was propagated from the remote service.
func (e *Error) IsRemote() bool {
	return e.Code >= 100 && e.Code < 600
}

func newError(code int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func wrapError(code int, err error, format string, args ...any) *Error {
	e := newError(code, format, args...)
	e.Err = err
	return e
}

// statusError maps a non-200 HTTP status to the envelope error.
func statusError(status int) *Error {
	switch status {
	case http.StatusUnauthorized:
		return newError(status, "HTTP/1.0 401 Unauthorized.")
	case http.StatusInternalServerError:
		return newError(status, "HTTP/1.0 500 IDC API - Server Error.")
	default:
		return newError(status, "Unexpected %d HTTP code.", status)
	}
}
