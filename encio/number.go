package encio

import (
	"errors"
	"io"
)

// ReadUint reads a run of decimal digits from r.
// It stops at the first non-digit, which is pushed back, or at the end of the stream.
// It returns ErrEmptyNumber if there are no digits, and ErrIntOverflow as soon as the number exceeds max.
func ReadUint(r Scanner, max uint64) (uint64, error) {
	var n uint64
	digits := 0
	for {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, NewIOError(err, "reading number", 0)
		}

		if c < '0' || c > '9' {
			if err := UnreadByte(r); err != nil {
				return 0, err
			}
			break
		}

		d := uint64(c - '0')
		if n > max/10 || (n == max/10 && d > max%10) {
			return 0, ErrIntOverflow
		}
		n = n*10 + d
		digits++
	}

	if digits == 0 {
		return 0, ErrEmptyNumber
	}
	return n, nil
}

// ReadInt reads a signed decimal number from r; an optional '-' followed by a run of digits.
// bits is the size of the destination integer, the result is guaranteed to fit in it.
func ReadInt(r Scanner, bits int) (int64, error) {
	c, err := ReadByte(r)
	if err != nil {
		return 0, err
	}

	limit := uint64(1) << (bits - 1)
	switch {
	case c == '-':
		n, err := ReadUint(r, limit)
		if err != nil {
			return 0, err
		}
		return -int64(n), nil
	case c >= '0' && c <= '9':
		if err := UnreadByte(r); err != nil {
			return 0, err
		}
		n, err := ReadUint(r, limit-1)
		if err != nil {
			return 0, err
		}
		return int64(n), nil
	default:
		return 0, ErrInvalidNumberPrefix
	}
}
