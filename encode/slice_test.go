package encode_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/bencs/encio"
	"github.com/stewi1014/bencs/encode"
)

func TestSlice(t *testing.T) {
	c := encode.NewSlice[int](encode.NewInt[int]())

	buff := new(bytes.Buffer)
	td.CmpNoError(t, c.Encode(buff, []int{1, 2, 3}))
	td.Cmp(t, buff.String(), "li1ei2ei3ee")
	td.Cmp(t, buff.Len(), 11)

	// a trailing value must be left untouched
	buff.WriteString("i4e")

	var got []int
	td.CmpNoError(t, c.Decode(buff, &got))
	td.Cmp(t, got, []int{1, 2, 3})
	td.Cmp(t, buff.String(), "i4e")
}

func TestSliceExactConsumption(t *testing.T) {
	var buff encio.Buffer
	c := encode.NewSlice[int](encode.NewInt[int]())
	td.CmpNoError(t, c.Encode(&buff, []int{1, 2, 3}))

	var got []int
	td.CmpNoError(t, c.Decode(&buff, &got))
	td.Cmp(t, buff.Len(), 0)

	_, err := buff.ReadByte()
	td.CmpError(t, err, "stream is at end of input")
}

func TestSliceEmpty(t *testing.T) {
	c := encode.NewSlice[string](encode.NewString())

	for _, in := range [][]string{nil, {}} {
		buff := new(bytes.Buffer)
		td.CmpNoError(t, c.Encode(buff, in))
		td.Cmp(t, buff.String(), "le")
	}

	var got []string
	td.CmpNoError(t, c.Decode(strings.NewReader("le"), &got))
	td.Cmp(t, got, []string{})
	td.CmpNotNil(t, got)
}

func TestSliceNested(t *testing.T) {
	c := encode.NewSlice[[]int](encode.NewSlice[int](encode.NewInt[int]()))
	in := [][]int{{1, 2, 3}, {}, {-4}}

	buff := new(bytes.Buffer)
	td.CmpNoError(t, c.Encode(buff, in))
	td.Cmp(t, buff.String(), "lli1ei2ei3eeleli-4eee")

	var got [][]int
	td.CmpNoError(t, c.Decode(buff, &got))
	td.Cmp(t, got, in)
}

func TestSliceReusesBackingArray(t *testing.T) {
	c := encode.NewSlice[int](encode.NewInt[int]())

	got := make([]int, 5, 8)
	td.CmpNoError(t, c.Decode(strings.NewReader("li7ei8ee"), &got))
	td.Cmp(t, got, []int{7, 8})
	td.Cmp(t, cap(got), 8)
}

func TestSliceDecodeErrors(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		err  error
	}{
		{desc: "missing prefix", in: "i1e", err: encio.ErrMissingListPrefix},
		{desc: "unterminated", in: "li1e", err: encio.ErrPrematureEnd},
		{desc: "empty stream", in: "", err: encio.ErrPrematureEnd},
		{desc: "foreign byte", in: "li1exe", err: encio.ErrMissingListSuffix},
		{desc: "wrong element shape", in: "l1:ae", err: encio.ErrMissingListSuffix},
		{desc: "malformed element", in: "li1xe", err: encio.ErrMissingIntSuffix},
		{desc: "element without digits", in: "lie", err: encio.ErrInvalidNumberPrefix},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var got []int
			err := encode.NewSlice[int](encode.NewInt[int]()).Decode(strings.NewReader(tC.in), &got)
			td.Cmp(t, err, td.ErrorIs(tC.err))
		})
	}
}

func TestSliceElementErrorsAreNotTerminators(t *testing.T) {
	c := encode.NewSlice[[]int](encode.NewSlice[int](encode.NewInt[int]()))

	var got [][]int
	err := c.Decode(strings.NewReader("lli1ei"), &got)
	td.Cmp(t, err, td.ErrorIs(encio.ErrPrematureEnd))

	err = c.Decode(strings.NewReader("llxee"), &got)
	td.Cmp(t, err, td.ErrorIs(encio.ErrMissingListSuffix))
}
