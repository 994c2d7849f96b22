package encode

import (
	"io"
	"strconv"
	"unsafe"

	"github.com/stewi1014/bencs/encio"
)

// NewInt returns a new integer Codec for T.
func NewInt[T Signed]() *Int[T] {
	var zero T
	return newInt[T](int(unsafe.Sizeof(zero)) * 8)
}

// newInt returns an integer Codec that only decodes numbers fitting in bits.
func newInt[T Signed](bits int) *Int[T] {
	return &Int[T]{
		bits: bits,
		buff: make([]byte, 0, 22),
	}
}

// Int is a Codec for signed integers.
// Decoding a number that does not fit in T fails with encio.ErrIntOverflow.
type Int[T Signed] struct {
	bits int
	buff []byte
}

// Encode implements Codec.
func (e *Int[T]) Encode(w io.Writer, v T) error {
	e.buff = append(e.buff[:0], 'i')
	e.buff = strconv.AppendInt(e.buff, int64(v), 10)
	e.buff = append(e.buff, 'e')
	return encio.Write(e.buff, w)
}

// Decode implements Codec.
// If the next byte is not 'i' it is left unread.
func (e *Int[T]) Decode(r encio.Scanner, v *T) error {
	if err := encio.ExpectPrefix(r, 'i', encio.ErrMissingIntPrefix); err != nil {
		return err
	}

	n, err := encio.ReadInt(r, e.bits)
	if err != nil {
		return started(err)
	}

	if err := encio.ExpectSuffix(r, 'e', encio.ErrMissingIntSuffix); err != nil {
		return err
	}

	*v = T(n)
	return nil
}
