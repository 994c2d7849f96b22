// Package bencs is a length-prefixed textual encoding for byte strings, integers, lists, pairs and ordered maps.
//
// Values are self-delimiting, with no type information on the wire:
//
//	"bobo"                  4:bobo
//	-42                     i-42e
//	[]int{1, 2, 3}          li1ei2ei3ee
//	map[string]int{"a": 1}  ll1:ai1eee
//
// The shape of a value is chosen by the type being encoded or decoded into.
// bencs/encode provides statically typed codecs for each shape, which compose without reflection.
// This package provides reflection-based entry points on top of them, building codecs from the type of the given value.
//
// bencs/encio provides io helpers, the numeric lexer and the error types.
package bencs

import (
	"errors"
	"fmt"
	"io"

	"github.com/stewi1014/bencs/encio"
)

// ErrTrailingData is returned by Unmarshal when data holds more than one value.
var ErrTrailingData = errors.New("trailing data after value")

// Marshal returns the encoding of v.
func Marshal(v any) ([]byte, error) {
	buff := new(encio.Buffer)
	if err := Put(buff, v); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// Unmarshal decodes data into the value pointed to by v.
// data must hold exactly one value.
func Unmarshal(data []byte, v any) error {
	buff := encio.NewBuffer(data)
	if err := Get(buff, v); err != nil {
		return err
	}

	if buff.Len() != 0 {
		return fmt.Errorf("%w: %v bytes", ErrTrailingData, buff.Len())
	}
	return nil
}

// Put writes the encoding of v to w.
func Put(w io.Writer, v any) error {
	return NewEncoder(w).Encode(v)
}

// Get decodes a single value from r into the value pointed to by v.
// Exactly the bytes of the value are consumed from r.
func Get(r encio.Scanner, v any) error {
	return NewDecoder(r).Decode(v)
}
