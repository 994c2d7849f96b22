package encio

import (
	"errors"
	"runtime"
)

// Error handling in bencs separates bad data, bad io and programmer error.
//
// Bad data is reported with one of the grammar errors below, returned as-is so they can be compared with errors.Is.
// A failing io.Reader or io.Writer is reported with an IOError wrapping the cause.
// Misuse of the library, such as building a codec for a type that cannot be encoded, is reported with Error,
// and constructors panic with it.
//
//	var ioErr IOError
//	switch {
//	case errors.Is(err, encio.ErrMissingListSuffix):
//		// malformed input
//	case errors.As(err, &ioErr):
//		// stop using the reader
//	}
var (
	// ErrPrematureEnd is returned when the stream ends in the middle of a token.
	ErrPrematureEnd = errors.New("premature end of stream")

	// ErrEmptyNumber is returned when a number has no digits.
	ErrEmptyNumber = errors.New("no digits when expecting a number")

	// ErrInvalidNumberPrefix is returned when a signed number starts with something other than a digit or '-'.
	ErrInvalidNumberPrefix = errors.New("prefix of a signed number is not numeric and not '-'")

	// ErrIntOverflow is returned when a number does not fit the type it is decoded into.
	ErrIntOverflow = errors.New("number overflows destination type")

	// ErrMissingColon is returned when a byte string length is not followed by ':'.
	ErrMissingColon = errors.New("non colon after number, when reading byte string")

	// ErrLengthOutOfRange is returned when a decoded byte string length is larger than MaxStringLen.
	ErrLengthOutOfRange = errors.New("byte string length larger than maximal length")

	// ErrMissingIntPrefix is returned when an integer does not start with 'i'.
	ErrMissingIntPrefix = errors.New("no 'i' prefix when reading an integer")

	// ErrMissingIntSuffix is returned when an integer does not end with 'e'.
	ErrMissingIntSuffix = errors.New("no 'e' postfix when reading an integer")

	// ErrMissingListPrefix is returned when a list or map does not start with 'l'.
	ErrMissingListPrefix = errors.New("no 'l' prefix when reading a list")

	// ErrMissingListSuffix is returned when a list does not end with 'e'.
	ErrMissingListSuffix = errors.New("no 'e' postfix when reading a list")

	// ErrMissingPairPrefix is returned when a pair does not start with 'l'.
	ErrMissingPairPrefix = errors.New("no 'l' prefix for pair")

	// ErrMissingPairSuffix is returned when a pair has more than two elements.
	ErrMissingPairSuffix = errors.New("pair postfix != e")

	// ErrMissingMapSuffix is returned when a map does not end with 'e'.
	ErrMissingMapSuffix = errors.New("map postfix != e")

	// ErrUnknownToken is returned by dynamic decoders when a value starts with a byte that starts no value.
	ErrUnknownToken = errors.New("byte does not start a value")

	// ErrTooLarge is returned when encoding a byte string longer than MaxStringLen.
	ErrTooLarge = errors.New("byte string larger than maximal length")

	// ErrTooDeep is returned by decoders with a depth limit when nesting exceeds it.
	ErrTooDeep = errors.New("nesting too deep")

	// ErrBadType is returned when a type cannot be encoded, or a value does not match the type it is decoded into.
	ErrBadType = errors.New("bad type")

	// ErrNilPointer is returned if a pointer that should not be nil is nil.
	ErrNilPointer = errors.New("nil pointer")
)

// NewIOError returns an IOError wrapping err with the given message.
// err is typically the error returned from the io.Reader/io.Writer.
// If message is empty, it is filled with the name of the function skip levels above the caller.
func NewIOError(err error, message string, skip int) error {
	if err == nil {
		return NewError(errors.New("unknown error"), "trying to create new IOError", "encio.NewIOError")
	}
	if message == "" {
		message = "in " + GetCaller(skip+1)
	}

	return IOError{
		Err:     err,
		Message: message,
	}
}

// IOError is returned when the underlying reader or writer fails.
type IOError struct {
	Err     error
	Message string
}

// Error implements error
func (e IOError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap implements errors's Unwrap()
func (e IOError) Unwrap() error {
	return e.Err
}

// NewError returns an Error wrapping err with message and caller.
// If caller is empty, it is automatically filled with the calling functions name.
func NewError(err error, message string, caller string) error {
	if caller == "" {
		caller = GetCaller(1)
	}

	return Error{
		Err:     err,
		Message: message,
		Caller:  caller,
	}
}

// Error is returned when the library is used incorrectly.
type Error struct {
	Err     error
	Message string
	Caller  string
}

// Error implements error
func (e Error) Error() (str string) {
	if e.Caller != "" {
		str = e.Caller + ": "
	}

	str += e.Err.Error()

	if e.Message != "" {
		str += " (" + e.Message + ")"
	}

	return str
}

// Unwrap implements errors's Unwrap()
func (e Error) Unwrap() error {
	return e.Err
}

// GetCaller returns the name of the calling function, skipping skip functions.
// i.e. 0 writes the calling function, 1 the function calling that etc...
func GetCaller(skip int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(2+skip, pcs)
	if n != 1 {
		return "Unknown Function"
	}

	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	return frame.Function
}
