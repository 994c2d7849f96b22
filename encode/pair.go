package encode

import (
	"io"

	"github.com/stewi1014/bencs/encio"
)

// Pair holds two values of possibly different types.
// On the wire it is a list of exactly two elements.
type Pair[T, U any] struct {
	First  T
	Second U
}

// MakePair returns the Pair of first and second.
func MakePair[T, U any](first T, second U) Pair[T, U] {
	return Pair[T, U]{First: first, Second: second}
}

// NewPair returns a new Pair Codec, using first and second for the two elements.
func NewPair[T, U any](first Codec[T], second Codec[U]) *PairCodec[T, U] {
	checkCodec(first, "first")
	checkCodec(second, "second")
	return &PairCodec[T, U]{
		first:  first,
		second: second,
	}
}

// PairCodec is a Codec for Pairs.
type PairCodec[T, U any] struct {
	first  Codec[T]
	second Codec[U]
}

// Encode implements Codec.
func (e *PairCodec[T, U]) Encode(w io.Writer, v Pair[T, U]) error {
	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	if err := e.first.Encode(w, v.First); err != nil {
		return err
	}

	if err := e.second.Encode(w, v.Second); err != nil {
		return err
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Codec.
// Exactly two elements are read; there is no check for the end of the list until both are decoded.
func (e *PairCodec[T, U]) Decode(r encio.Scanner, v *Pair[T, U]) error {
	if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingPairPrefix); err != nil {
		return err
	}

	if err := e.first.Decode(r, &v.First); err != nil {
		return started(err)
	}

	if err := e.second.Decode(r, &v.Second); err != nil {
		return started(err)
	}

	return encio.ExpectSuffix(r, 'e', encio.ErrMissingPairSuffix)
}
