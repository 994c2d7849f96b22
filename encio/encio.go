// Package encio provides io methods relevant to encoding, the numeric lexer, as well as error types.
package encio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	// MEG is a mebibyte.
	MEG = 1024 * 1024

	// MaxStringLen is the largest byte string that will be encoded or decoded.
	// Encoding a longer string fails with ErrTooLarge, decoding a longer length fails with ErrLengthOutOfRange
	// before anything is allocated.
	MaxStringLen = 10 * MEG
)

// Scanner is a source of encoded data.
// UnreadByte is only ever called directly after a successful ReadByte, so a single byte of pushback is all that is required.
//
// *bytes.Buffer, *bytes.Reader, *strings.Reader, *bufio.Reader and *Buffer all implement Scanner.
type Scanner interface {
	io.Reader
	io.ByteScanner
}

// NewScanner returns r if it already implements Scanner, else r wrapped in a bufio.Reader.
// In the latter case the bufio.Reader may read ahead of what has been decoded,
// so callers decoding several values from r must keep using the returned Scanner.
func NewScanner(r io.Reader) Scanner {
	if s, ok := r.(Scanner); ok {
		return s
	}
	return bufio.NewReader(r)
}

// ReadByte reads a single byte from r.
// The end of the stream is reported as ErrPrematureEnd, and other errors are wrapped in an IOError.
func ReadByte(r Scanner) (byte, error) {
	c, err := r.ReadByte()
	if err == nil {
		return c, nil
	}
	if errors.Is(err, io.EOF) {
		return 0, ErrPrematureEnd
	}
	return 0, NewIOError(err, "reading byte", 0)
}

// UnreadByte pushes the last byte read from r back.
func UnreadByte(r Scanner) error {
	if err := r.UnreadByte(); err != nil {
		Logger().Warn("scanner refused to unread byte", zap.String("scanner", fmt.Sprintf("%T", r)), zap.Error(err))
		return NewIOError(err, "unreading byte", 0)
	}
	return nil
}

// ExpectPrefix reads a byte from r and checks that it is c.
// If it is not, the byte is pushed back and missing is returned, leaving r positioned before the unexpected byte.
func ExpectPrefix(r Scanner, c byte, missing error) error {
	got, err := ReadByte(r)
	if err != nil {
		return err
	}
	if got != c {
		if err := UnreadByte(r); err != nil {
			return err
		}
		return missing
	}
	return nil
}

// ExpectSuffix reads a byte from r and checks that it is c, returning missing if it is not.
// Unlike ExpectPrefix, the byte is consumed either way.
// If r ends instead, the error matches both missing and ErrPrematureEnd.
func ExpectSuffix(r Scanner, c byte, missing error) error {
	got, err := ReadByte(r)
	if err == ErrPrematureEnd {
		return errors.Join(missing, err)
	}
	if err != nil {
		return err
	}
	if got != c {
		return missing
	}
	return nil
}

// AtEnd reports whether the next byte in r is the container terminator 'e'.
// If it is, it is consumed. If not, it is pushed back.
// The end of the stream is ErrPrematureEnd; a container is never implicitly closed.
func AtEnd(r Scanner) (bool, error) {
	c, err := ReadByte(r)
	if err != nil {
		return false, err
	}
	if c == 'e' {
		return true, nil
	}
	return false, UnreadByte(r)
}

// Read reads from r, completely filling the buffer. It provides error handling with as little overhead as possible.
// In an ideal read, only a single int equality check is performed. If the read reports the whole buffer is read, returned errors are ignored.
// If r ends before buff is full, an IOError wrapping ErrPrematureEnd is returned.
func Read(buff []byte, r io.Reader) error {
	n, err := r.Read(buff)
	if n == len(buff) {
		return nil
	}

	end := n
	for end < len(buff) && err == nil {
		n, err = r.Read(buff[end:])
		end += n
		if n == 0 && err == nil {
			return NewIOError(
				io.ErrNoProgress,
				fmt.Sprintf("want %v bytes but only got %v", len(buff), end),
				1,
			)
		}
	}

	switch {
	case end == len(buff):
		return nil
	case end > len(buff):
		return NewIOError(
			errors.New("bad io.Reader implementation"),
			fmt.Sprintf("reported %v bytes read, but buffer is only %v bytes", end, len(buff)),
			1,
		)
	case errors.Is(err, io.EOF):
		return NewIOError(
			ErrPrematureEnd,
			fmt.Sprintf("want %v bytes but only got %v", len(buff), end),
			1,
		)
	default:
		return NewIOError(
			err,
			fmt.Sprintf("want %v bytes but only got %v", len(buff), end),
			1,
		)
	}
}

// Write writes to w from buff, handling errors of io.Writer with as little overhead as possible.
// In an ideal write, only a single int equality check is performed. It returns any error from Write().
func Write(buff []byte, w io.Writer) error {
	n, err := w.Write(buff)
	if n == len(buff) {
		return err
	}

	end := n
	for end < len(buff) && err == nil && n > 0 {
		Logger().Warn("bad io.Writer implementation; short write without error, calling again",
			zap.String("writer", fmt.Sprintf("%T", w)),
			zap.Int("given", len(buff)-(end-n)),
			zap.Int("written", n),
		)
		n, err = w.Write(buff[end:])
		end += n
	}

	if end != len(buff) {
		switch {
		case end > len(buff):
			return NewIOError(
				errors.New("bad io.Writer implementation"),
				fmt.Sprintf("Write() reported %v bytes written, but was only given %v bytes", end, len(buff)),
				1,
			)
		case err == nil:
			return NewIOError(
				io.ErrShortWrite,
				fmt.Sprintf("want %v bytes but only wrote %v bytes", len(buff), end),
				1,
			)
		default:
			return NewIOError(
				err,
				fmt.Sprintf("want %v bytes but wrote %v bytes", len(buff), end),
				1,
			)
		}
	}
	return err
}
