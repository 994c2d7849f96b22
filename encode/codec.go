// Package encode provides codecs for each shape of the format.
//
// A byte string is its decimal length, ':' and the raw bytes; 4:bobo.
// An integer is 'i', the signed decimal value and 'e'; i-42e.
// A list is 'l', its elements and 'e'; li1ei2ee.
// A pair is a list of exactly two elements of possibly different shapes.
// An ordered map is a list of key-value pairs in ascending key order.
//
// The shape of a value is never written. It is chosen by the type of the value being encoded and of the destination being decoded into,
// so codecs are composed statically:
//
//	pair := encode.NewPair[int, string](encode.NewInt[int](), encode.NewString())
//	c := encode.NewMap[string, []encode.Pair[int, string]](encode.NewString(), encode.NewSlice[encode.Pair[int, string]](pair))
//	err := c.Encode(w, map[string][]encode.Pair[int, string]{"aa": {{First: 12, Second: "gogo"}}})
//
// Codecs hold scratch buffers and must not be used concurrently.
package encode

import (
	"fmt"
	"io"

	"github.com/stewi1014/bencs/encio"
)

// Codec encodes and decodes values of type T.
//
// Decode reads exactly what Encode wrote; no extra data is read.
// On error the destination may have been partially written and should not be used.
//
// Errors from inside a compound value may be wrapped, so compare them with errors.Is, not ==.
type Codec[T any] interface {
	// Encode writes v to w.
	Encode(w io.Writer, v T) error

	// Decode reads a value from r into v.
	Decode(r encio.Scanner, v *T) error
}

// Signed is the set of types that can be encoded as integers.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

var (
	listPrefix = []byte{'l'}
	listSuffix = []byte{'e'}
)

// notStarted reports whether err came from an element that failed on its first byte,
// which was pushed back; meaning the element never started and the byte must belong to the enclosing list.
// Only the bare errors count; errors from inside a value that had begun are marked with started.
func notStarted(err error) bool {
	switch err {
	case encio.ErrMissingIntPrefix,
		encio.ErrMissingListPrefix,
		encio.ErrMissingPairPrefix,
		encio.ErrEmptyNumber,
		encio.ErrUnknownToken:
		return true
	default:
		return false
	}
}

// started marks err as coming from inside a value that has already consumed input,
// so enclosing lists do not mistake it for their terminator. errors.Is still matches the wrapped error.
func started(err error) error {
	if notStarted(err) {
		return startedError{err}
	}
	return err
}

type startedError struct {
	err error
}

func (e startedError) Error() string { return e.err.Error() }
func (e startedError) Unwrap() error { return e.err }

// checkCodec panics if c is nil.
func checkCodec(c any, name string) {
	if c == nil {
		panic(encio.NewError(encio.ErrNilPointer, fmt.Sprintf("%v codec is nil", name), encio.GetCaller(1)))
	}
}
