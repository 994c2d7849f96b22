package encode

import (
	"io"

	"github.com/stewi1014/bencs/encio"
)

// NewSlice returns a new slice Codec, using elem for each element.
func NewSlice[E any](elem Codec[E]) *Slice[E] {
	checkCodec(elem, "element")
	return &Slice[E]{
		elem: elem,
	}
}

// Slice is a Codec for lists held in slices.
type Slice[E any] struct {
	elem Codec[E]
}

// Encode implements Codec.
// Elements are written in order, and encoding stops at the first element that fails.
// nil and empty slices are both written as an empty list.
func (e *Slice[E]) Encode(w io.Writer, v []E) error {
	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	for i := range v {
		if err := e.elem.Encode(w, v[i]); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Codec.
// The decoded slice is never nil, and the backing array of the slice being decoded into is reused.
//
// The list ends at the first 'e' found where an element would start.
// An element that fails on its first byte means that byte is neither an element nor the end of the list,
// and encio.ErrMissingListSuffix is returned. Any other element error is returned unchanged.
func (e *Slice[E]) Decode(r encio.Scanner, v *[]E) error {
	if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingListPrefix); err != nil {
		return err
	}

	s := (*v)[:0]
	if s == nil {
		s = []E{}
	}

	for {
		end, err := encio.AtEnd(r)
		if err != nil {
			return err
		}
		if end {
			*v = s
			return nil
		}

		var elem E
		if err := e.elem.Decode(r, &elem); err != nil {
			if notStarted(err) {
				return encio.ErrMissingListSuffix
			}
			return err
		}
		s = append(s, elem)
	}
}
