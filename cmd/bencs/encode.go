package main

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/stewi1014/bencs/encode"
)

func runEncode(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		verbose   bool
		stringify bool
		comments  bool
	)
	flags := newFlagSet("encode", &verbose)
	flags.BoolVar(&stringify, "stringify", false, "encode booleans, floats and null as byte strings instead of failing")
	flags.BoolVar(&comments, "jsonc", false, "input is JSON with comments and trailing commas")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger, err := setupLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	input, err := openInput(flags.Args(), stdin)
	if err != nil {
		return err
	}
	defer input.Close()

	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if comments {
		data = jsonc.ToJSON(data)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	v, err := fromYAML(doc, stringify)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)
	if err := encode.NewAny().Encode(out, v); err != nil {
		return err
	}
	return out.Flush()
}

// fromYAML converts a document decoded by yaml.v3 into values the Any codec accepts.
// Mappings become ordered maps, sequences lists, and integers and strings themselves.
func fromYAML(v any, stringify bool) (any, error) {
	switch v := v.(type) {
	case string, int, int64, uint64:
		return v, nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), nil
		}
	case []any:
		list := make([]any, len(v))
		for i := range v {
			elem, err := fromYAML(v[i], stringify)
			if err != nil {
				return nil, fmt.Errorf("[%v]: %w", i, err)
			}
			list[i] = elem
		}
		return list, nil
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			elem, err := fromYAML(val, stringify)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", k, err)
			}
			m[k] = elem
		}
		return m, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			key, ok := k.(string)
			if !ok {
				if !stringify {
					return nil, fmt.Errorf("map key %v (%T) is not a string", k, k)
				}
				key = fmt.Sprint(k)
			}
			elem, err := fromYAML(val, stringify)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", key, err)
			}
			m[key] = elem
		}
		return m, nil
	}

	if stringify {
		if v == nil {
			return "", nil
		}
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("cannot encode %T %v", v, v)
}
