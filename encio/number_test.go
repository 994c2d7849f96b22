package encio_test

import (
	"math"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/bencs/encio"
)

func TestReadUint(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		max  uint64
		want uint64
		err  error
		rest string
	}{
		{desc: "single digit", in: "0", max: math.MaxUint64, want: 0},
		{desc: "stops at non-digit", in: "123:abc", max: math.MaxUint64, want: 123, rest: ":abc"},
		{desc: "leading zeros", in: "007e", max: math.MaxUint64, want: 7, rest: "e"},
		{desc: "largest uint64", in: "18446744073709551615", max: math.MaxUint64, want: math.MaxUint64},
		{desc: "overflows uint64", in: "18446744073709551616", max: math.MaxUint64, err: encio.ErrIntOverflow},
		{desc: "exactly max", in: "255", max: 255, want: 255},
		{desc: "over max", in: "256", max: 255, err: encio.ErrIntOverflow},
		{desc: "empty stream", in: "", max: math.MaxUint64, err: encio.ErrEmptyNumber},
		{desc: "no digits", in: "e", max: math.MaxUint64, err: encio.ErrEmptyNumber, rest: "e"},
		{desc: "minus is not a digit", in: "-1", max: math.MaxUint64, err: encio.ErrEmptyNumber, rest: "-1"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := strings.NewReader(tC.in)
			n, err := encio.ReadUint(r, tC.max)
			if tC.err != nil {
				td.Cmp(t, err, td.ErrorIs(tC.err))
				if tC.rest != "" {
					td.Cmp(t, rest(r), tC.rest)
				}
				return
			}

			td.CmpNoError(t, err)
			td.Cmp(t, n, tC.want)
			td.Cmp(t, rest(r), tC.rest)
		})
	}
}

func TestReadInt(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		bits int
		want int64
		err  error
		rest string
	}{
		{desc: "zero", in: "0e", bits: 64, want: 0, rest: "e"},
		{desc: "positive", in: "42e", bits: 64, want: 42, rest: "e"},
		{desc: "negative", in: "-42e", bits: 64, want: -42, rest: "e"},
		{desc: "min int64", in: "-9223372036854775808", bits: 64, want: math.MinInt64},
		{desc: "max int64", in: "9223372036854775807", bits: 64, want: math.MaxInt64},
		{desc: "over max int64", in: "9223372036854775808", bits: 64, err: encio.ErrIntOverflow},
		{desc: "under min int64", in: "-9223372036854775809", bits: 64, err: encio.ErrIntOverflow},
		{desc: "min int8", in: "-128", bits: 8, want: -128},
		{desc: "max int8", in: "127", bits: 8, want: 127},
		{desc: "over max int8", in: "128", bits: 8, err: encio.ErrIntOverflow},
		{desc: "under min int8", in: "-129", bits: 8, err: encio.ErrIntOverflow},
		{desc: "empty stream", in: "", bits: 64, err: encio.ErrPrematureEnd},
		{desc: "bad prefix", in: "x5", bits: 64, err: encio.ErrInvalidNumberPrefix, rest: "5"},
		{desc: "plus sign", in: "+5", bits: 64, err: encio.ErrInvalidNumberPrefix, rest: "5"},
		{desc: "lone minus", in: "-e", bits: 64, err: encio.ErrEmptyNumber, rest: "e"},
		{desc: "double minus", in: "--1", bits: 64, err: encio.ErrEmptyNumber, rest: "-1"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := strings.NewReader(tC.in)
			n, err := encio.ReadInt(r, tC.bits)
			if tC.err != nil {
				td.Cmp(t, err, td.ErrorIs(tC.err))
				if tC.rest != "" {
					td.Cmp(t, rest(r), tC.rest)
				}
				return
			}

			td.CmpNoError(t, err)
			td.Cmp(t, n, tC.want)
			td.Cmp(t, rest(r), tC.rest)
		})
	}
}

// rest returns the unread portion of r.
func rest(r *strings.Reader) string {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return b.String()
		}
		b.WriteByte(c)
	}
}
