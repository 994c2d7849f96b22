package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/stewi1014/bencs/encio"
	"github.com/stewi1014/bencs/encode"
)

func runDump(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		verbose  bool
		format   string
		maxDepth int
	)
	flags := newFlagSet("dump", &verbose)
	flags.StringVarP(&format, "output", "o", "text", "output format: text, json, yaml or cbor")
	flags.IntVar(&maxDepth, "max-depth", 64, "maximum list nesting depth (0 for no limit)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger, err := setupLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	printer, err := newPrinter(format)
	if err != nil {
		return err
	}

	input, err := openInput(flags.Args(), stdin)
	if err != nil {
		return err
	}
	defer input.Close()

	out := bufio.NewWriter(stdout)
	if err := dump(input, out, printer, maxDepth, logger); err != nil {
		out.Flush() //nolint:errcheck
		return err
	}
	return out.Flush()
}

// dump decodes values from r until the end of the stream, printing each one.
func dump(r io.Reader, w io.Writer, p printer, maxDepth int, logger *zap.Logger) error {
	var scanner encio.Scanner = encio.NewScanner(r)
	if maxDepth > 0 {
		scanner = encio.NewDepthLimiter(scanner, maxDepth)
	}

	codec := encode.NewAny()
	for n := 0; ; n++ {
		if _, err := scanner.ReadByte(); err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("end of input", zap.Int("values", n))
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if err := encio.UnreadByte(scanner); err != nil {
			return err
		}

		var v any
		if err := codec.Decode(scanner, &v); err != nil {
			return fmt.Errorf("value %v: %w", n, err)
		}

		if err := p(w, v); err != nil {
			return fmt.Errorf("printing value %v: %w", n, err)
		}
	}
}

type printer func(w io.Writer, v any) error

func newPrinter(format string) (printer, error) {
	switch format {
	case "text":
		return printText, nil
	case "json":
		return printJSON, nil
	case "yaml":
		return newYAMLPrinter(), nil
	case "cbor":
		return newCBORPrinter()
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func printText(w io.Writer, v any) error {
	var b strings.Builder
	writeText(&b, v, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, v any, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	switch v := v.(type) {
	case int64:
		b.WriteString("int ")
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('\n')
	case []byte:
		fmt.Fprintf(b, "string(%v) %q\n", len(v), v)
	case []any:
		fmt.Fprintf(b, "list(%v)\n", len(v))
		for _, elem := range v {
			writeText(b, elem, depth+1)
		}
	}
}

// plain converts decoded values into types that encode naturally as JSON and YAML;
// byte strings become strings when they are valid UTF-8.
func plain(v any) any {
	switch v := v.(type) {
	case []byte:
		if utf8.Valid(v) {
			return string(v)
		}
		return v
	case []any:
		list := make([]any, len(v))
		for i := range v {
			list[i] = plain(v[i])
		}
		return list
	default:
		return v
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plain(v))
}

// newYAMLPrinter writes each value as its own YAML document, separated by "---".
func newYAMLPrinter() printer {
	first := true
	return func(w io.Writer, v any) error {
		if !first {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		first = false

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain(v)); err != nil {
			return err
		}
		return enc.Close()
	}
}

// newCBORPrinter writes each value as a CBOR data item with Core Deterministic Encoding.
// Byte strings stay CBOR byte strings.
func newCBORPrinter() (printer, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder initialization failed: %w", err)
	}

	return func(w io.Writer, v any) error {
		data, err := mode.Marshal(v)
		if err != nil {
			return err
		}
		return encio.Write(data, w)
	}, nil
}
