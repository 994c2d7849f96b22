package encode

import (
	"cmp"
	"errors"
	"io"
	"slices"

	"github.com/stewi1014/bencs/encio"
)

// NewMap returns a new map Codec for naturally ordered keys.
func NewMap[K cmp.Ordered, V any](key Codec[K], val Codec[V]) *Map[K, V] {
	return NewMapFunc(key, val, cmp.Compare[K])
}

// NewMapFunc returns a new map Codec, ordering keys with compare.
// compare must be a total order over K, returning a negative number when a < b, a positive number when a > b and zero when a == b.
func NewMapFunc[K comparable, V any](key Codec[K], val Codec[V], compare func(a, b K) int) *Map[K, V] {
	checkCodec(key, "key")
	checkCodec(val, "value")
	if compare == nil {
		panic(encio.NewError(encio.ErrNilPointer, "key comparison function is nil", ""))
	}

	return &Map[K, V]{
		pair:    NewPair(key, val),
		compare: compare,
	}
}

// Map is a Codec for maps.
// Entries are written as a list of key-value pairs in ascending key order, so equal maps always encode to the same bytes.
type Map[K comparable, V any] struct {
	pair    *PairCodec[K, V]
	compare func(a, b K) int
	keys    []K
}

// Encode implements Codec.
func (e *Map[K, V]) Encode(w io.Writer, v map[K]V) error {
	e.keys = e.keys[:0]
	for k := range v {
		e.keys = append(e.keys, k)
	}
	slices.SortFunc(e.keys, e.compare)
	defer clear(e.keys)

	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	for _, k := range e.keys {
		if err := e.pair.Encode(w, MakePair(k, v[k])); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Codec.
// Entries are added to the map being decoded into, allocating it if nil.
// A key appearing more than once takes the last value decoded for it.
//
// As with Slice, a pair that fails on its first byte means the map is not terminated,
// and encio.ErrMissingMapSuffix is returned. If the stream ends before the closing 'e',
// the error matches both encio.ErrMissingMapSuffix and encio.ErrPrematureEnd.
func (e *Map[K, V]) Decode(r encio.Scanner, v *map[K]V) error {
	if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingListPrefix); err != nil {
		return err
	}

	if *v == nil {
		*v = make(map[K]V)
	}

	for {
		end, err := encio.AtEnd(r)
		if err == encio.ErrPrematureEnd {
			return errors.Join(encio.ErrMissingMapSuffix, err)
		}
		if err != nil {
			return err
		}
		if end {
			return nil
		}

		var p Pair[K, V]
		if err := e.pair.Decode(r, &p); err != nil {
			if notStarted(err) {
				return encio.ErrMissingMapSuffix
			}
			return err
		}
		(*v)[p.First] = p.Second
	}
}
