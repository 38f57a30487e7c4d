package gsla

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Error is the interface implemented by every error kind defined in this
// module. Kinds can be refined with a message or wrapped around a lower-level
// error while still satisfying [errors.Is] against the original kind.
type Error interface {
	error
	WithMessage(message string) Error
	Wrap(err error) Error
}

type baseError string

const rootError = baseError("")

var ErrBudgetUnreachable = rootError.WithMessage("Byte budget unreachable")
var ErrBufferTooSmall = rootError.WithMessage("Destination buffer too small")
var ErrCorruptStream = rootError.WithMessage("Corrupt compressed stream")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrInvalidContainer = rootError.WithMessage("Invalid animation container")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrNotSupported = rootError.WithMessage("Operation not supported")
var ErrValidationFailed = rootError.WithMessage("Round-trip validation failed")

func (e baseError) Error() string {
	return string(e)
}

func (e baseError) WithMessage(message string) Error {
	return customError{
		message:       message,
		originalError: e,
	}
}

func (e baseError) Wrap(err error) Error {
	return customError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customError) Error() string {
	return e.message
}

func (e customError) WithMessage(message string) Error {
	return customError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customError) Wrap(err error) Error {
	return customError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customError) Unwrap() error {
	return e.originalError
}
