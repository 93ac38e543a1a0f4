package apiclient

import (
	"errors"
	"fmt"
)

// Failure kinds. Match them with errors.Is; the concrete *Error carries the
// request context and the underlying cause.
var (
	ErrInvalidEndpoint  = errors.New("invalid endpoint")
	ErrNoData           = errors.New("no data received")
	ErrNetwork          = errors.New("network error")
	ErrDecoding         = errors.New("failed to decode data")
	ErrEncoding         = errors.New("failed to encode request")
	ErrUnexpectedStatus = errors.New("unexpected status")

	errMissingHost = errors.New("missing scheme or host")
)

// Error is returned for every failed call.
type Error struct {
	Kind       error
	Method     string
	Endpoint   string
	StatusCode int
	// Message is the server-provided text for non-2xx responses, if any.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidEndpoint):
		return "invalid_endpoint"
	case errors.Is(err, ErrNoData):
		return "no_data"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrDecoding):
		return "decoding_error"
	case errors.Is(err, ErrEncoding):
		return "encoding_error"
	case errors.Is(err, ErrUnexpectedStatus):
		return "unexpected_status"
	default:
		return "error"
	}
}
