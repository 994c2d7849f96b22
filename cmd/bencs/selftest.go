package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/maxatome/go-testdeep/td"
	"go.uber.org/zap"

	"github.com/stewi1014/bencs"
	"github.com/stewi1014/bencs/encio"
	"github.com/stewi1014/bencs/encode"
)

func runSelftest(args []string, _ io.Reader, stdout io.Writer) error {
	var verbose bool
	flags := newFlagSet("selftest", &verbose)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 0 {
		return fmt.Errorf("selftest takes no arguments, got %q", flags.Arg(0))
	}

	logger, err := setupLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	return selftest(stdout, logger)
}

func selftest(out io.Writer, logger *zap.Logger) error {
	integer := encode.NewInt[int]()
	str := encode.NewString()

	tests := []func() error{
		func() error {
			return roundTrip[[]int](out, logger, "[]int", encode.NewSlice[int](integer), []int{1, 2, 3})
		},
		func() error {
			return roundTrip[[]string](out, logger, "[]string", encode.NewSlice[string](str), []string{"bobo", "eskimosi", "momo"})
		},
		func() error {
			return roundTrip[[][]int](out, logger, "empty [][]int", encode.NewSlice[[]int](encode.NewSlice[int](integer)), [][]int{})
		},
		func() error {
			return roundTrip[[][]int](out, logger, "[][]int", encode.NewSlice[[]int](encode.NewSlice[int](integer)), [][]int{{1, 2, 3}, {}})
		},
		func() error {
			return roundTrip[encode.Pair[int, string]](out, logger, "Pair[int, string]", encode.NewPair[int, string](integer, str), encode.MakePair(12, "aa"))
		},
		func() error {
			return roundTrip[map[string]int](out, logger, "map[string]int", encode.NewMap[string, int](str, integer), map[string]int{"a": 1, "b": 2, "ab": 12})
		},
		func() error {
			c := encode.NewMap[string, []encode.Pair[int, string]](str, encode.NewSlice[encode.Pair[int, string]](encode.NewPair[int, string](integer, str)))
			return roundTrip[map[string][]encode.Pair[int, string]](out, logger, "map[string][]Pair[int, string]", c, map[string][]encode.Pair[int, string]{
				"aa": {encode.MakePair(12, "gogo")},
			})
		},
	}

	for _, test := range tests {
		if err := test(); err != nil {
			return err
		}
	}
	return nil
}

// roundTrip encodes v with c, decodes it again and checks that exactly the encoded bytes were consumed and the result equals v.
// The encoding is then checked against the reflection based codecs.
func roundTrip[T any](out io.Writer, logger *zap.Logger, name string, c encode.Codec[T], v T) error {
	buff := new(encio.Buffer)
	if err := c.Encode(buff, v); err != nil {
		return fmt.Errorf("%v: put failed: %w", name, err)
	}
	packed := buff.String()

	var got T
	if err := c.Decode(buff, &got); err != nil {
		return fmt.Errorf("%v: get failed: %w (packed %q)", name, err, packed)
	}

	if buff.Len() != 0 {
		return fmt.Errorf("%v: too little input consumed, rest of input: %q", name, buff.String())
	}

	if err := td.EqDeeplyError(got, v); err != nil {
		return fmt.Errorf("%v: decoded value differs (packed %q): %w", name, packed, err)
	}

	marshalled, err := bencs.Marshal(v)
	if err != nil {
		return fmt.Errorf("%v: marshal failed: %w", name, err)
	}
	if !bytes.Equal(marshalled, []byte(packed)) {
		return fmt.Errorf("%v: marshal wrote %q, codec wrote %q", name, marshalled, packed)
	}

	var unmarshalled T
	if err := bencs.Unmarshal(marshalled, &unmarshalled); err != nil {
		return fmt.Errorf("%v: unmarshal failed: %w", name, err)
	}
	if err := td.EqDeeplyError(unmarshalled, v); err != nil {
		return fmt.Errorf("%v: unmarshalled value differs: %w", name, err)
	}

	logger.Debug("round trip", zap.String("type", name), zap.String("packed", packed))
	fmt.Fprintf(out, "tested %-32v %v\n", name, packed)
	return nil
}
