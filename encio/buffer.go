package encio

import (
	"errors"
	"io"
)

var errUnreadByte = errors.New("encio.Buffer: UnreadByte: previous operation was not a successful ReadByte")

// Buffer is a buffer for encoded data. It operates similar to bytes.Buffer, and implements Scanner.
type Buffer struct {
	buff     []byte
	off      int
	lastByte bool
}

// NewBuffer returns a Buffer reading from b.
// The Buffer takes ownership of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{buff: b}
}

// Read implements io.Reader
func (b *Buffer) Read(buff []byte) (int, error) {
	b.lastByte = false
	n := copy(buff, b.buff[b.off:])
	b.off += n
	if n < len(buff) {
		return n, io.EOF
	}
	return n, nil
}

// ReadByte implements io.ByteReader
func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		b.lastByte = false
		return 0, io.EOF
	}
	by := b.buff[b.off]
	b.off++
	b.lastByte = true
	return by, nil
}

// UnreadByte implements io.ByteScanner
func (b *Buffer) UnreadByte() error {
	if !b.lastByte || b.off == 0 {
		return errUnreadByte
	}
	b.lastByte = false
	b.off--
	return nil
}

// Write implements io.Writer
func (b *Buffer) Write(buff []byte) (int, error) {
	b.lastByte = false
	return copy(b.buff[b.grow(len(buff)):], buff), nil
}

// WriteByte implements io.ByteWriter
func (b *Buffer) WriteByte(by byte) error {
	b.lastByte = false
	b.buff[b.grow(1)] = by
	return nil
}

// Len returns the length of the unread portion of the buffer
func (b *Buffer) Len() int {
	return len(b.buff) - b.off
}

// Bytes returns the unread portion of the buffer.
// It is only valid until the next call to a write method.
func (b *Buffer) Bytes() []byte {
	return b.buff[b.off:]
}

// String returns the unread portion of the buffer as a string.
func (b *Buffer) String() string {
	return string(b.buff[b.off:])
}

// Reset empties the buffer, keeping its allocation.
func (b *Buffer) Reset() {
	b.buff = b.buff[:0]
	b.off = 0
	b.lastByte = false
}

func (b *Buffer) grow(n int) int {
	l := len(b.buff)
	if l+n <= cap(b.buff) {
		b.buff = b.buff[:l+n]
		return l
	}

	l -= b.off
	c := cap(b.buff)
	if (l+n)*8 <= c { // let cap grow to 8 time the size so we're not always sliding.
		// slide down
		copy(b.buff, b.buff[b.off:])
		b.buff = b.buff[:l+n]
		b.off = 0
		return l
	}
	// must allocate
	nb := make([]byte, l+n, c*2+n)
	copy(nb, b.buff[b.off:])
	b.buff = nb
	b.off = 0
	return l
}
