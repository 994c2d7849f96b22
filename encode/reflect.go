package encode

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/stewi1014/bencs/encio"
)

// Encodable is a Codec for a type only known at run time.
// It is used by Source to build codecs from a reflect.Type, with the same wire format as the static Codecs in this package.
//
// The value passed to Decode must be settable.
type Encodable interface {
	// Type returns the type that the Encodable encodes.
	Type() reflect.Type

	// Encode writes v to w.
	Encode(w io.Writer, v reflect.Value) error

	// Decode reads a value from r into v.
	Decode(r encio.Scanner, v reflect.Value) error
}

// DefaultSource creates Encodables for every type the format can represent;
// strings, []byte, signed integers, slices, arrays, maps with string or signed integer keys,
// structs (as fixed length lists), pointers to those and the empty interface.
// It panics with encio.ErrBadType for anything else.
var DefaultSource = SourceFromFunc(func(t reflect.Type, s Source) Encodable {
	switch t.Kind() {
	case reflect.String:
		return &reflectString{t: t, str: NewString()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &reflectInt{t: t, i: newInt[int64](t.Bits())}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &reflectBytes{t: t, bytes: NewBytes()}
		}
		return NewReflectSlice(t, s)
	case reflect.Array:
		return NewReflectArray(t, s)
	case reflect.Map:
		return NewReflectMap(t, s)
	case reflect.Struct:
		return NewTuple(t, s)
	case reflect.Ptr:
		return NewReflectPointer(t, s)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return &reflectAny{t: t, any: NewAny()}
		}
	}
	panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot create encodable for type %v", t), ""))
})

type reflectString struct {
	t   reflect.Type
	str *String
}

func (e *reflectString) Type() reflect.Type { return e.t }

func (e *reflectString) Encode(w io.Writer, v reflect.Value) error {
	return e.str.Encode(w, v.String())
}

func (e *reflectString) Decode(r encio.Scanner, v reflect.Value) error {
	var s string
	if err := e.str.Decode(r, &s); err != nil {
		return err
	}
	v.SetString(s)
	return nil
}

type reflectBytes struct {
	t     reflect.Type
	bytes *Bytes
}

func (e *reflectBytes) Type() reflect.Type { return e.t }

func (e *reflectBytes) Encode(w io.Writer, v reflect.Value) error {
	return e.bytes.Encode(w, v.Bytes())
}

func (e *reflectBytes) Decode(r encio.Scanner, v reflect.Value) error {
	b := v.Bytes()
	if err := e.bytes.Decode(r, &b); err != nil {
		return err
	}
	v.SetBytes(b)
	return nil
}

type reflectInt struct {
	t reflect.Type
	i *Int[int64]
}

func (e *reflectInt) Type() reflect.Type { return e.t }

func (e *reflectInt) Encode(w io.Writer, v reflect.Value) error {
	return e.i.Encode(w, v.Int())
}

func (e *reflectInt) Decode(r encio.Scanner, v reflect.Value) error {
	var n int64
	if err := e.i.Decode(r, &n); err != nil {
		return err
	}
	v.SetInt(n)
	return nil
}

type reflectAny struct {
	t   reflect.Type
	any *Any
}

func (e *reflectAny) Type() reflect.Type { return e.t }

func (e *reflectAny) Encode(w io.Writer, v reflect.Value) error {
	return e.any.Encode(w, v.Interface())
}

func (e *reflectAny) Decode(r encio.Scanner, v reflect.Value) error {
	var a any
	if err := e.any.Decode(r, &a); err != nil {
		return err
	}
	v.Set(reflect.ValueOf(a))
	return nil
}

// NewReflectSlice returns a new slice Encodable.
func NewReflectSlice(t reflect.Type, src Source) *ReflectSlice {
	if t.Kind() != reflect.Slice {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a slice", t), ""))
	}

	return &ReflectSlice{
		t:    t,
		elem: src.NewEncodable(t.Elem(), nil),
	}
}

// ReflectSlice is an Encodable for slices. It follows the same rules as Slice.
type ReflectSlice struct {
	t    reflect.Type
	elem *Encodable
}

// Type implements Encodable.
func (e *ReflectSlice) Type() reflect.Type { return e.t }

// Encode implements Encodable.
func (e *ReflectSlice) Encode(w io.Writer, v reflect.Value) error {
	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	l := v.Len()
	for i := 0; i < l; i++ {
		if err := (*e.elem).Encode(w, v.Index(i)); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Encodable.
func (e *ReflectSlice) Decode(r encio.Scanner, v reflect.Value) error {
	if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingListPrefix); err != nil {
		return err
	}

	var s reflect.Value
	if v.IsNil() {
		s = reflect.MakeSlice(e.t, 0, 0)
	} else {
		s = v.Slice(0, 0)
	}

	for {
		end, err := encio.AtEnd(r)
		if err != nil {
			return err
		}
		if end {
			v.Set(s)
			return nil
		}

		elem := reflect.New(e.t.Elem()).Elem()
		if err := (*e.elem).Decode(r, elem); err != nil {
			if notStarted(err) {
				return encio.ErrMissingListSuffix
			}
			return err
		}
		s = reflect.Append(s, elem)
	}
}

// NewReflectArray returns a new array Encodable.
func NewReflectArray(t reflect.Type, src Source) *ReflectArray {
	if t.Kind() != reflect.Array {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not an array", t), ""))
	}

	return &ReflectArray{
		t:    t,
		elem: src.NewEncodable(t.Elem(), nil),
	}
}

// ReflectArray is an Encodable for arrays.
// An array is a list with exactly as many elements as the array's length.
type ReflectArray struct {
	t    reflect.Type
	elem *Encodable
}

// Type implements Encodable.
func (e *ReflectArray) Type() reflect.Type { return e.t }

// Encode implements Encodable.
func (e *ReflectArray) Encode(w io.Writer, v reflect.Value) error {
	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	for i := 0; i < e.t.Len(); i++ {
		if err := (*e.elem).Encode(w, v.Index(i)); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Encodable.
func (e *ReflectArray) Decode(r encio.Scanner, v reflect.Value) error {
	if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingListPrefix); err != nil {
		return err
	}

	for i := 0; i < e.t.Len(); i++ {
		if err := (*e.elem).Decode(r, v.Index(i)); err != nil {
			return started(err)
		}
	}

	return encio.ExpectSuffix(r, 'e', encio.ErrMissingListSuffix)
}

// NewReflectMap returns a new map Encodable.
// The map's key must be of string or signed integer kind.
func NewReflectMap(t reflect.Type, src Source) *ReflectMap {
	if t.Kind() != reflect.Map {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a map", t), ""))
	}

	var compare func(a, b reflect.Value) int
	switch t.Key().Kind() {
	case reflect.String:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) }
	default:
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("map key %v has no natural order", t.Key()), ""))
	}

	return &ReflectMap{
		t:       t,
		compare: compare,
		key:     src.NewEncodable(t.Key(), nil),
		val:     src.NewEncodable(t.Elem(), nil),
	}
}

// ReflectMap is an Encodable for maps. It follows the same rules as Map.
type ReflectMap struct {
	t        reflect.Type
	compare  func(a, b reflect.Value) int
	key, val *Encodable
}

// Type implements Encodable.
func (e *ReflectMap) Type() reflect.Type { return e.t }

// Encode implements Encodable.
func (e *ReflectMap) Encode(w io.Writer, v reflect.Value) error {
	keys := v.MapKeys()
	slices.SortFunc(keys, e.compare)

	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	for _, k := range keys {
		if err := encio.Write(listPrefix, w); err != nil {
			return err
		}
		if err := (*e.key).Encode(w, k); err != nil {
			return err
		}
		if err := (*e.val).Encode(w, v.MapIndex(k)); err != nil {
			return err
		}
		if err := encio.Write(listSuffix, w); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Encodable.
func (e *ReflectMap) Decode(r encio.Scanner, v reflect.Value) error {
	if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingListPrefix); err != nil {
		return err
	}

	if v.IsNil() {
		v.Set(reflect.MakeMap(e.t))
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

		if err := encio.ExpectPrefix(r, 'l', encio.ErrMissingPairPrefix); err != nil {
			if err == encio.ErrMissingPairPrefix {
				return encio.ErrMissingMapSuffix
			}
			return err
		}

		key := reflect.New(e.t.Key()).Elem()
		if err := (*e.key).Decode(r, key); err != nil {
			return started(err)
		}

		val := reflect.New(e.t.Elem()).Elem()
		if err := (*e.val).Decode(r, val); err != nil {
			return started(err)
		}

		if err := encio.ExpectSuffix(r, 'e', encio.ErrMissingPairSuffix); err != nil {
			return err
		}

		v.SetMapIndex(key, val)
	}
}

// NewReflectPointer returns a new pointer Encodable.
func NewReflectPointer(t reflect.Type, src Source) *ReflectPointer {
	if t.Kind() != reflect.Ptr {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a pointer", t), ""))
	}

	return &ReflectPointer{
		t:    t,
		elem: src.NewEncodable(t.Elem(), nil),
	}
}

// ReflectPointer encodes the value a pointer points to.
// The format has no nil, so encoding a nil pointer fails with encio.ErrNilPointer.
// Decoding into a nil pointer allocates a new value.
type ReflectPointer struct {
	t    reflect.Type
	elem *Encodable
}

// Type implements Encodable.
func (e *ReflectPointer) Type() reflect.Type { return e.t }

// Encode implements Encodable.
func (e *ReflectPointer) Encode(w io.Writer, v reflect.Value) error {
	if v.IsNil() {
		return encio.NewError(encio.ErrNilPointer, fmt.Sprintf("cannot encode nil %v", e.t), "")
	}
	return (*e.elem).Encode(w, v.Elem())
}

// Decode implements Encodable.
func (e *ReflectPointer) Decode(r encio.Scanner, v reflect.Value) error {
	if v.IsNil() {
		v.Set(reflect.New(e.t.Elem()))
	}
	return (*e.elem).Decode(r, v.Elem())
}
