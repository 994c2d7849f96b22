package encode

import (
	"errors"
	"io"
	"math"
	"strconv"

	"github.com/stewi1014/bencs/encio"
)

// NewString returns a new string Codec.
func NewString() *String {
	return &String{
		buff: make([]byte, 0, 12),
	}
}

// String is a Codec for byte strings held in a string.
// The string need not be valid UTF-8.
type String struct {
	buff []byte
}

// Encode implements Codec.
// Strings longer than encio.MaxStringLen are rejected with encio.ErrTooLarge and nothing is written.
func (e *String) Encode(w io.Writer, v string) error {
	if err := e.writeHeader(w, len(v)); err != nil || len(v) == 0 {
		return err
	}
	return encio.Write([]byte(v), w)
}

// Decode implements Codec.
func (e *String) Decode(r encio.Scanner, v *string) error {
	l, err := readLength(r)
	if err != nil {
		return err
	}

	buff := make([]byte, l)
	if err := encio.Read(buff, r); err != nil {
		return err
	}

	*v = string(buff)
	return nil
}

func (e *String) writeHeader(w io.Writer, l int) error {
	if l > encio.MaxStringLen {
		return encio.ErrTooLarge
	}

	e.buff = strconv.AppendInt(e.buff[:0], int64(l), 10)
	e.buff = append(e.buff, ':')
	return encio.Write(e.buff, w)
}

// readLength reads the length of a byte string and the following colon.
func readLength(r encio.Scanner) (int, error) {
	l, err := encio.ReadUint(r, math.MaxUint64)
	switch {
	case errors.Is(err, encio.ErrIntOverflow):
		return 0, encio.ErrLengthOutOfRange
	case err != nil:
		return 0, err
	}

	if err := encio.ExpectSuffix(r, ':', encio.ErrMissingColon); err != nil {
		return 0, err
	}

	if l > encio.MaxStringLen {
		return 0, encio.ErrLengthOutOfRange
	}
	return int(l), nil
}

// NewBytes returns a new []byte Codec.
func NewBytes() *Bytes {
	return &Bytes{
		str: NewString(),
	}
}

// Bytes is a Codec for byte strings held in a []byte.
type Bytes struct {
	str *String
}

// Encode implements Codec.
// Byte slices longer than encio.MaxStringLen are rejected with encio.ErrTooLarge and nothing is written.
func (e *Bytes) Encode(w io.Writer, v []byte) error {
	if err := e.str.writeHeader(w, len(v)); err != nil || len(v) == 0 {
		return err
	}
	return encio.Write(v, w)
}

// Decode implements Codec.
// The capacity of the slice being decoded into is reused when large enough.
// A nil slice stays nil when an empty string is decoded.
func (e *Bytes) Decode(r encio.Scanner, v *[]byte) error {
	l, err := readLength(r)
	if err != nil {
		return err
	}

	buff := *v
	if cap(buff) < l {
		buff = make([]byte, l)
	} else {
		buff = buff[:l]
	}

	if err := encio.Read(buff, r); err != nil {
		return err
	}

	*v = buff
	return nil
}
