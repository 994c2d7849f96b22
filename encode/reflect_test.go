package encode_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/bencs/encio"
	"github.com/stewi1014/bencs/encode"
)

type Person struct {
	Name     string
	Age      int8
	Nick     string `bencs:"false"`
	Tags     []string
	internal int
}

type Tree struct {
	Value    int
	Children []*Tree
}

// roundTripValue encodes v with an Encodable from a fresh CachingSource, checks the encoding and decodes it into a new value.
func roundTripValue(t *testing.T, v any, want string) any {
	t.Helper()

	src := encode.NewCachingSource(encode.DefaultSource)
	ty := reflect.TypeOf(v)
	enc := *src.NewEncodable(ty, nil)
	td.Cmp(t, enc.Type(), ty)

	buff := new(bytes.Buffer)
	td.CmpNoError(t, enc.Encode(buff, reflect.ValueOf(v)))
	td.Cmp(t, buff.String(), want)

	got := reflect.New(ty).Elem()
	td.CmpNoError(t, enc.Decode(buff, got))
	td.Cmp(t, buff.Len(), 0)
	return got.Interface()
}

func TestReflect(t *testing.T) {
	testCases := []struct {
		desc string
		in   any
		want string
	}{
		{desc: "string", in: "bobo", want: "4:bobo"},
		{desc: "bytes", in: []byte("ab"), want: "2:ab"},
		{desc: "int16", in: int16(-300), want: "i-300e"},
		{desc: "slice", in: []int{1, 2, 3}, want: "li1ei2ei3ee"},
		{desc: "empty slice", in: []string{}, want: "le"},
		{desc: "array", in: [2]string{"a", "b"}, want: "l1:a1:be"},
		{desc: "map", in: map[string]int{"b": 2, "a": 1, "ab": 12}, want: "ll1:ai1eel2:abi12eel1:bi2eee"},
		{desc: "int map", in: map[int][]byte{3: []byte("c"), -3: []byte("m")}, want: "lli-3e1:meli3e1:cee"},
		{desc: "pair", in: encode.MakePair(12, "aa"), want: "li12e2:aae"},
		{desc: "struct", in: Person{Name: "bob", Age: 30, Tags: []string{"x"}}, want: "l3:bobi30el1:xee"},
		{
			desc: "recursive",
			in:   Tree{Value: 1, Children: []*Tree{{Value: 2, Children: []*Tree{}}}},
			want: "li1elli2eleeee",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got := roundTripValue(t, tC.in, tC.want)
			td.Cmp(t, got, tC.in)
		})
	}
}

func TestReflectAny(t *testing.T) {
	got := roundTripValue(t, []any{"a", 1}, "l1:ai1ee")
	td.Cmp(t, got, []any{[]byte("a"), int64(1)})
}

func TestReflectStructTags(t *testing.T) {
	type tagged struct {
		A string `bencs:"yes please"`
		B string `bencs:"0"`
		C string `bencs:"t"`
	}

	got := roundTripValue(t, tagged{A: "a", B: "b", C: "c"}, "l1:a1:ce")
	td.Cmp(t, got, tagged{A: "a", C: "c"})
}

func TestReflectTupleErrors(t *testing.T) {
	src := encode.NewCachingSource(encode.DefaultSource)

	pair := *src.NewEncodable(reflect.TypeOf(encode.Pair[int, int]{}), nil)
	v := reflect.New(pair.Type()).Elem()
	td.Cmp(t, pair.Decode(strings.NewReader("i1e"), v), td.ErrorIs(encio.ErrMissingPairPrefix))
	td.Cmp(t, pair.Decode(strings.NewReader("li1ei2ei3ee"), v), td.ErrorIs(encio.ErrMissingPairSuffix))

	person := *src.NewEncodable(reflect.TypeOf(Person{}), nil)
	v = reflect.New(person.Type()).Elem()
	td.Cmp(t, person.Decode(strings.NewReader("i1e"), v), td.ErrorIs(encio.ErrMissingListPrefix))
	td.Cmp(t, person.Decode(strings.NewReader("l3:bobi30ele1:xe"), v), td.ErrorIs(encio.ErrMissingListSuffix))
}

func TestReflectArrayLength(t *testing.T) {
	src := encode.NewCachingSource(encode.DefaultSource)
	enc := *src.NewEncodable(reflect.TypeOf([2]int{}), nil)
	v := reflect.New(enc.Type()).Elem()

	td.Cmp(t, enc.Decode(strings.NewReader("li1ee"), v), td.ErrorIs(encio.ErrMissingIntPrefix))
	td.Cmp(t, enc.Decode(strings.NewReader("li1ei2ei3ee"), v), td.ErrorIs(encio.ErrMissingListSuffix))
}

func TestReflectPointer(t *testing.T) {
	src := encode.NewCachingSource(encode.DefaultSource)
	enc := *src.NewEncodable(reflect.TypeOf((*int)(nil)), nil)

	var nilPtr *int
	err := enc.Encode(new(bytes.Buffer), reflect.ValueOf(nilPtr))
	td.Cmp(t, err, td.ErrorIs(encio.ErrNilPointer))

	var got *int
	td.CmpNoError(t, enc.Decode(strings.NewReader("i5e"), reflect.ValueOf(&got).Elem()))
	td.Cmp(t, got, td.Ptr(5))
}

func TestReflectMapDecodeErrors(t *testing.T) {
	src := encode.NewCachingSource(encode.DefaultSource)
	enc := *src.NewEncodable(reflect.TypeOf(map[string]int{}), nil)
	v := reflect.New(enc.Type()).Elem()

	td.Cmp(t, enc.Decode(strings.NewReader("l1:ai1ee"), v), td.ErrorIs(encio.ErrMissingMapSuffix))
	td.Cmp(t, enc.Decode(strings.NewReader("lli1ei1eee"), v), td.ErrorIs(encio.ErrEmptyNumber))
	td.Cmp(t, enc.Decode(strings.NewReader("ll1:ai1ei1eee"), v), td.ErrorIs(encio.ErrMissingPairSuffix))
	td.Cmp(t, enc.Decode(strings.NewReader("ll1:ai1ee"), v), td.All(
		td.ErrorIs(encio.ErrMissingMapSuffix),
		td.ErrorIs(encio.ErrPrematureEnd),
	))
}

func TestDefaultSourceBadTypes(t *testing.T) {
	for _, v := range []any{
		true,
		1.5,
		uint(1),
		make(chan int),
		map[bool]int{},
		struct{ F func() }{},
		[]error{},
	} {
		ty := reflect.TypeOf(v)
		td.CmpPanic(t,
			func() { encode.NewCachingSource(encode.DefaultSource).NewEncodable(ty, nil) },
			td.Isa(encio.Error{}),
			ty.String())
	}
}

func TestCachingSource(t *testing.T) {
	calls := 0
	src := encode.NewCachingSource(encode.SourceFromFunc(func(ty reflect.Type, s encode.Source) encode.Encodable {
		calls++
		return *encode.DefaultSource.NewEncodable(ty, s)
	}))

	a := src.NewEncodable(reflect.TypeOf(map[string][]string{}), nil)
	b := src.NewEncodable(reflect.TypeOf(map[string][]string{}), nil)
	td.Cmp(t, a, td.Shallow(b))
	td.Cmp(t, calls, 3, "map, slice and string are each built once")

	src.NewEncodable(reflect.TypeOf([]string{}), nil)
	td.Cmp(t, calls, 3)
}

func TestCachingSourceForgetsPartialBuilds(t *testing.T) {
	type node struct {
		Kids []node
		Bad  map[float64]int
	}
	src := encode.NewCachingSource(encode.DefaultSource)

	td.CmpPanic(t, func() { src.NewEncodable(reflect.TypeOf(node{}), nil) }, td.Isa(encio.Error{}))
	td.CmpPanic(t,
		func() { src.NewEncodable(reflect.TypeOf([]node{}), nil) },
		td.Isa(encio.Error{}),
		"element codecs built before the failure are not cached")

	enc := *src.NewEncodable(reflect.TypeOf([]int{}), nil)
	td.CmpNoError(t, enc.Encode(new(bytes.Buffer), reflect.ValueOf([]int{1})))
}

func TestCachingSourceForgetsFailedTypes(t *testing.T) {
	src := encode.NewCachingSource(encode.DefaultSource)
	ty := reflect.TypeOf(struct{ F float64 }{})

	td.CmpPanic(t, func() { src.NewEncodable(ty, nil) }, td.Isa(encio.Error{}))
	td.CmpPanic(t, func() { src.NewEncodable(ty, nil) }, td.Isa(encio.Error{}), "panics again instead of returning an empty Encodable")
}
