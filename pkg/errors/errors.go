// Package errors gives sunburst failures a machine-readable [Code].
//
// Every error that reaches a user carries one: the CLI prints
// [UserMessage], the server maps the code to an HTTP status. Report
// problems are [ErrCodeMalformedInput]; source problems are split into
// not-found, network and timeout codes so callers can decide whether to
// retry.
//
//	if errors.IsMalformedInput(err) {
//	    // reject the payload, keep the last good chart
//	}
//	return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error class.
type Code string

const (
	// Bad input: the report, a flag or the config file.
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidScale   Code = "INVALID_SCALE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// The report source does not exist.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Fetching the report failed.
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Everything else.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error without a cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error around cause. A nil cause yields a plain Error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NewMalformedInput creates the error returned when a failure count is
// negative, fractional, or not a number at all.
func NewMalformedInput(format string, args ...any) *Error {
	return New(ErrCodeMalformedInput, format, args...)
}

// IsMalformedInput reports whether err carries ErrCodeMalformedInput.
func IsMalformedInput(err error) bool {
	return Is(err, ErrCodeMalformedInput)
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix and cause, or
// err.Error() for foreign errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
