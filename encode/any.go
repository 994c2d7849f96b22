package encode

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/stewi1014/bencs/encio"
)

// NewAny returns a new Codec for values whose shape is only known at run time.
func NewAny() *Any {
	return &Any{
		str: NewBytes(),
		i:   NewInt[int64](),
	}
}

// Any is a Codec for dynamically typed values.
//
// Encode accepts strings, []byte, signed and unsigned integers, []any, []string, map[string]any and map[string]string
// nested to any depth, and types implementing Marshaler. Maps are written as ordered maps.
//
// Since the format does not record shapes, Decode can only tell byte strings, integers and lists apart.
// Byte strings decode to []byte, integers to int64 and lists, including maps and pairs, to []any.
type Any struct {
	str *Bytes
	i   *Int[int64]
}

// Marshaler is implemented by types that can write themselves with the Any Codec.
type Marshaler interface {
	MarshalBencs(w io.Writer, a *Any) error
}

// Encode implements Codec.
func (e *Any) Encode(w io.Writer, v any) error {
	switch v := v.(type) {
	case string:
		if err := e.str.str.writeHeader(w, len(v)); err != nil || len(v) == 0 {
			return err
		}
		return encio.Write([]byte(v), w)
	case []byte:
		return e.str.Encode(w, v)
	case int:
		return e.i.Encode(w, int64(v))
	case int8:
		return e.i.Encode(w, int64(v))
	case int16:
		return e.i.Encode(w, int64(v))
	case int32:
		return e.i.Encode(w, int64(v))
	case int64:
		return e.i.Encode(w, v)
	case uint:
		return e.encodeUint(w, uint64(v))
	case uint8:
		return e.i.Encode(w, int64(v))
	case uint16:
		return e.i.Encode(w, int64(v))
	case uint32:
		return e.i.Encode(w, int64(v))
	case uint64:
		return e.encodeUint(w, v)
	case []any:
		return encodeAnyList(e, w, v)
	case []string:
		return encodeAnyList(e, w, v)
	case map[string]any:
		return encodeAnyMap(e, w, v)
	case map[string]string:
		return encodeAnyMap(e, w, v)
	case Marshaler:
		return v.MarshalBencs(w, e)
	case nil:
		return encio.NewError(encio.ErrNilPointer, "cannot encode nil", "")
	default:
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot encode %T", v), "")
	}
}

func (e *Any) encodeUint(w io.Writer, v uint64) error {
	if v > math.MaxInt64 {
		return encio.NewError(encio.ErrIntOverflow, fmt.Sprintf("%v does not fit in an int64", v), "")
	}
	return e.i.Encode(w, int64(v))
}

func encodeAnyList[E any](e *Any, w io.Writer, v []E) error {
	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	for i := range v {
		if err := e.Encode(w, v[i]); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

func encodeAnyMap[V any](e *Any, w io.Writer, v map[string]V) error {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[string])

	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	for _, k := range keys {
		if err := encio.Write(listPrefix, w); err != nil {
			return err
		}
		if err := e.Encode(w, k); err != nil {
			return err
		}
		if err := e.Encode(w, v[k]); err != nil {
			return err
		}
		if err := encio.Write(listSuffix, w); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Codec.
// The first byte of the value decides its shape; a byte that starts no value is left unread and encio.ErrUnknownToken is returned.
func (e *Any) Decode(r encio.Scanner, v *any) error {
	c, err := encio.ReadByte(r)
	if err != nil {
		return err
	}
	if err := encio.UnreadByte(r); err != nil {
		return err
	}

	switch {
	case c == 'i':
		var n int64
		if err := e.i.Decode(r, &n); err != nil {
			return err
		}
		*v = n
		return nil

	case c >= '0' && c <= '9':
		b := []byte{}
		if err := e.str.Decode(r, &b); err != nil {
			return err
		}
		*v = b
		return nil

	case c == 'l':
		return e.decodeList(r, v)

	default:
		return encio.ErrUnknownToken
	}
}

func (e *Any) decodeList(r encio.Scanner, v *any) error {
	if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingListPrefix); err != nil {
		return err
	}

	list := []any{}
	for {
		end, err := encio.AtEnd(r)
		if err != nil {
			return err
		}
		if end {
			*v = list
			return nil
		}

		var elem any
		if err := e.Decode(r, &elem); err != nil {
			if notStarted(err) {
				return encio.ErrMissingListSuffix
			}
			return err
		}
		list = append(list, elem)
	}
}
